package services

import (
	"context"
	"strings"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/ports/output"
)

// CatalogService answers read-only listing queries over the latest version of each artefact.
type CatalogService struct {
	repo ports.CatalogRepository
}

func NewCatalogService(repo ports.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Departments() []domain.Department {
	return domain.Departments
}

func (s *CatalogService) ListByPrefix(ctx context.Context, prefix string, sort domain.SortKey) ([]*domain.ArtifactSummary, error) {
	if sort != domain.SortByName {
		sort = domain.SortByDate
	}
	return s.repo.ListByPrefix(ctx, strings.TrimSpace(prefix), sort)
}

// Search matches term against identifiers and descriptions. A blank term matches nothing.
func (s *CatalogService) Search(ctx context.Context, term string) ([]*domain.ArtifactSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*domain.ArtifactSummary{}, nil
	}
	return s.repo.Search(ctx, term)
}

func (s *CatalogService) Latest(ctx context.Context, id string) (*domain.ArtifactSummary, error) {
	return s.repo.Latest(ctx, domain.NormalizeArtifactID(id))
}
