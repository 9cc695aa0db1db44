package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/ports/output"
)

// latestVersionSelect joins every artefact with its highest version row.
const latestVersionSelect = `
	SELECT a.id_archivo, a.descripcion, v.version, v.usuario, v.fecha_cambio
	FROM archivo a
	JOIN versionamiento v ON v.id_archivo = a.id_archivo
	WHERE v.version = (
		SELECT MAX(v2.version)
		FROM versionamiento v2
		WHERE v2.id_archivo = a.id_archivo
	)
`

// orderClauses is the closed set of orderings a listing may use.
var orderClauses = map[domain.SortKey]string{
	domain.SortByName: "a.id_archivo ASC",
	domain.SortByDate: "v.fecha_cambio DESC, a.id_archivo ASC",
}

type catalogRepo struct {
	db DB
}

func NewCatalogRepository(db DB) ports.CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) ListByPrefix(ctx context.Context, prefix string, sort domain.SortKey) ([]*domain.ArtifactSummary, error) {
	orderBy, ok := orderClauses[sort]
	if !ok {
		orderBy = orderClauses[domain.SortByDate]
	}

	query := latestVersionSelect + `
		AND a.id_archivo ILIKE $1
		ORDER BY ` + orderBy

	rows, err := r.db.Query(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("list artifacts by prefix: %w", err)
	}
	return collectSummaries(rows)
}

func (r *catalogRepo) Search(ctx context.Context, term string) ([]*domain.ArtifactSummary, error) {
	query := latestVersionSelect + `
		AND (a.id_archivo ILIKE $1 OR a.descripcion ILIKE $1)
		ORDER BY a.id_archivo ASC`

	rows, err := r.db.Query(ctx, query, "%"+escapeLike(term)+"%")
	if err != nil {
		return nil, fmt.Errorf("search artifacts: %w", err)
	}
	return collectSummaries(rows)
}

func (r *catalogRepo) Latest(ctx context.Context, id string) (*domain.ArtifactSummary, error) {
	s := &domain.ArtifactSummary{}
	err := r.db.QueryRow(ctx, latestVersionSelect+` AND a.id_archivo = $1`, id).
		Scan(&s.ID, &s.Description, &s.Version, &s.User, &s.ChangedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get latest version: %w", err)
	}
	return s, nil
}

func collectSummaries(rows pgx.Rows) ([]*domain.ArtifactSummary, error) {
	defer rows.Close()

	out := []*domain.ArtifactSummary{}
	for rows.Next() {
		s := &domain.ArtifactSummary{}
		if err := rows.Scan(&s.ID, &s.Description, &s.Version, &s.User, &s.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan artifact summary row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact summary rows: %w", err)
	}
	return out, nil
}
