package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/ports/output"
)

type artifactRepo struct {
	db DB
}

func NewArtifactRepository(db DB) ports.ArtifactRepository {
	return &artifactRepo{db: db}
}

func (r *artifactRepo) Create(ctx context.Context, artifact *domain.Artifact, initial *domain.Version) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create artifact: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO archivo (id_archivo, ruta, descripcion) VALUES ($1, $2, $3)`,
		artifact.ID, artifact.Path, artifact.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrArtifactExists
		}
		return fmt.Errorf("insert artifact: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO versionamiento (id_archivo, version, descripcion, usuario, fecha_cambio)
		VALUES ($1, $2, $3, $4, $5)
	`, initial.ArtifactID, initial.Version, initial.Description, initial.User, initial.ChangedAt)
	if err != nil {
		return fmt.Errorf("insert initial version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create artifact: %w", err)
	}
	return nil
}

func (r *artifactRepo) Get(ctx context.Context, id string) (*domain.Artifact, error) {
	a := &domain.Artifact{ID: id}
	err := r.db.QueryRow(ctx,
		`SELECT descripcion, ruta FROM archivo WHERE id_archivo = $1`, id,
	).Scan(&a.Description, &a.Path)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return a, nil
}

func (r *artifactRepo) Update(ctx context.Context, upd ports.VersionUpdate) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin update artifact: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockArtifact(ctx, tx, upd.ArtifactID); err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE archivo SET descripcion = $1, ruta = $2 WHERE id_archivo = $3`,
		upd.Description, upd.Path, upd.ArtifactID,
	)
	if err != nil {
		return 0, fmt.Errorf("update artifact: %w", err)
	}

	var version int
	err = tx.QueryRow(ctx, `
		INSERT INTO versionamiento (id_archivo, version, descripcion, usuario, fecha_cambio)
		SELECT $1::text, COALESCE(MAX(version), $2::int) + 1, $3::text, $4::text, $5::timestamptz
		FROM versionamiento
		WHERE id_archivo = $1
		RETURNING version
	`, upd.ArtifactID, domain.InitialVersion, upd.Description, upd.User, upd.ChangedAt).Scan(&version)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrVersionConflict
		}
		return 0, fmt.Errorf("insert version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit update artifact: %w", err)
	}
	return version, nil
}

func (r *artifactRepo) Delete(ctx context.Context, id string) (*ports.DeleteOutcome, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin delete artifact: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out := &ports.DeleteOutcome{}
	err = tx.QueryRow(ctx,
		`SELECT ruta FROM archivo WHERE id_archivo = $1 FOR UPDATE`, id,
	).Scan(&out.Path)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("lock artifact: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM versionamiento WHERE id_archivo = $1`, id); err != nil {
		return nil, fmt.Errorf("delete versions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM archivo WHERE id_archivo = $1`, id); err != nil {
		return nil, fmt.Errorf("delete artifact: %w", err)
	}

	var shared int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM archivo WHERE ruta = $1`, out.Path).Scan(&shared); err != nil {
		return nil, fmt.Errorf("count path references: %w", err)
	}
	out.PathShared = shared > 0

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delete artifact: %w", err)
	}
	return out, nil
}

func (r *artifactRepo) History(ctx context.Context, id string) ([]*domain.Version, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id_archivo, version, descripcion, usuario, fecha_cambio
		FROM versionamiento
		WHERE id_archivo = $1
		ORDER BY version DESC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	versions := []*domain.Version{}
	for rows.Next() {
		v := &domain.Version{}
		if err := rows.Scan(&v.ArtifactID, &v.Version, &v.Description, &v.User, &v.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan version row: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate version rows: %w", err)
	}
	return versions, nil
}

func (r *artifactRepo) PathInUse(ctx context.Context, path string) (bool, error) {
	var inUse bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM archivo WHERE ruta = $1)`, path,
	).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("check path references: %w", err)
	}
	return inUse, nil
}

// lockArtifact takes the catalog row lock that serialises edits of one artefact.
func lockArtifact(ctx context.Context, tx pgx.Tx, id string) error {
	var locked string
	err := tx.QueryRow(ctx,
		`SELECT id_archivo FROM archivo WHERE id_archivo = $1 FOR UPDATE`, id,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrArtifactNotFound
		}
		return fmt.Errorf("lock artifact: %w", err)
	}
	return nil
}
