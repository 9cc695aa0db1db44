package domain

import "strings"

type Department struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var Departments = []Department{
	{Code: "CN", Name: "Contabilidad"},
	{Code: "TE", Name: "Tesorería"},
	{Code: "SF", Name: "SARLAFT"},
	{Code: "GE", Name: "General"},
}

// artifactMarker follows the department code in every registrable identifier (CN_Z..., GE_Z...).
const artifactMarker = "_Z"

// AllowedPrefixes returns the identifier prefixes accepted on registration.
func AllowedPrefixes() []string {
	out := make([]string, 0, len(Departments))
	for _, d := range Departments {
		out = append(out, d.Code+artifactMarker)
	}
	return out
}

// HasAllowedPrefix reports whether id starts with a department marker. id must already be normalized.
func HasAllowedPrefix(id string) bool {
	for _, p := range AllowedPrefixes() {
		if strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}

// DepartmentCode returns the two-letter code an identifier belongs to.
func DepartmentCode(id string) string {
	id = NormalizeArtifactID(id)
	if len(id) < 2 {
		return id
	}
	return id[:2]
}
