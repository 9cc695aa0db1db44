package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/ports/output"
)

// Local keeps archives as plain files directly under one upload directory.
// Saving a name that already exists replaces the previous file.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Local{root: filepath.Clean(root)}, nil
}

var _ ports.FileStore = (*Local)(nil)

func (s *Local) Save(ctx context.Context, name string, r io.Reader, _ int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) {
		return "", domain.ErrInvalidFilename
	}

	path := filepath.Join(s.root, name)
	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %v", domain.ErrStorage, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("%w: write %s: %v", domain.ErrStorage, name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %v", domain.ErrStorage, name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%w: move %s into place: %v", domain.ErrStorage, name, err)
	}

	log.WithField("path", path).Debug("artifact file stored")
	return path, nil
}

func (s *Local) Open(_ context.Context, path string) (io.ReadCloser, error) {
	if !s.contains(path) {
		return nil, domain.ErrFileNotFound
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStorage, path, err)
	}
	return f, nil
}

func (s *Local) Remove(_ context.Context, path string) error {
	if !s.contains(path) {
		return domain.ErrFileNotFound
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrFileNotFound
		}
		return fmt.Errorf("%w: remove %s: %v", domain.ErrStorage, path, err)
	}
	return nil
}

// contains reports whether path names a file directly inside the upload root.
func (s *Local) contains(path string) bool {
	if path == "" {
		return false
	}
	return filepath.Dir(filepath.Clean(path)) == s.root
}
