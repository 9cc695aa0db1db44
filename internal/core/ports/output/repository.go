package ports

import (
	"context"
	"time"

	"artefact-registry/internal/core/domain"
)

// VersionUpdate describes one edit of an artefact.
type VersionUpdate struct {
	ArtifactID  string
	Description string
	Path        string
	User        string
	ChangedAt   time.Time
}

// DeleteOutcome reports what a catalog deletion removed.
type DeleteOutcome struct {
	Path string
	// PathShared is true when another artefact still points at the same file.
	PathShared bool
}

type ArtifactRepository interface {
	// Create inserts the catalog row and its initial version atomically.
	Create(ctx context.Context, artifact *domain.Artifact, initial *domain.Version) error
	Get(ctx context.Context, id string) (*domain.Artifact, error)
	// Update overwrites description and path and appends the next version atomically.
	// It returns the version number that was recorded.
	Update(ctx context.Context, upd VersionUpdate) (int, error)
	// Delete removes all versions and the catalog row atomically.
	Delete(ctx context.Context, id string) (*DeleteOutcome, error)
	History(ctx context.Context, id string) ([]*domain.Version, error)
	// PathInUse reports whether any artefact currently points at path.
	PathInUse(ctx context.Context, path string) (bool, error)
}

type CatalogRepository interface {
	ListByPrefix(ctx context.Context, prefix string, sort domain.SortKey) ([]*domain.ArtifactSummary, error)
	Search(ctx context.Context, term string) ([]*domain.ArtifactSummary, error)
	Latest(ctx context.Context, id string) (*domain.ArtifactSummary, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
