package domain

import (
	"strings"
	"time"
)

// InitialVersion is the version number recorded when an artefact is first registered.
const InitialVersion = 1000

type Artifact struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

// Version is one immutable entry of an artefact's change log.
type Version struct {
	ArtifactID  string    `json:"artifact_id"`
	Version     int       `json:"version"`
	Description string    `json:"description"`
	User        string    `json:"user"`
	ChangedAt   time.Time `json:"changed_at"`
}

// ArtifactSummary is a catalog row joined with its latest version.
type ArtifactSummary struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Version     int       `json:"version"`
	User        string    `json:"user"`
	ChangedAt   time.Time `json:"changed_at"`
}

type SortKey string

const (
	SortByDate SortKey = "date"
	SortByName SortKey = "name"
)

// ParseSortKey accepts "name" (or the legacy "nombre"); anything else sorts by last change.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "nombre":
		return SortByName
	default:
		return SortByDate
	}
}

// NormalizeArtifactID trims and uppercases an artefact identifier.
func NormalizeArtifactID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
