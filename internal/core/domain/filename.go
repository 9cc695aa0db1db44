package domain

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ArchiveExtension is the only file type the catalog accepts.
const ArchiveExtension = ".zip"

// HasArchiveExtension reports whether name ends in .zip, ignoring case.
func HasArchiveExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ArchiveExtension)
}

// SecureFilename reduces a client supplied filename to a flat ASCII name that
// cannot address anything outside the upload root. It returns "" when nothing
// usable is left.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range name {
		if r < 0x80 {
			ascii.WriteRune(r)
		}
	}
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii.String())
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	name = b.String()
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	return strings.Trim(name, "._")
}
