package postgres

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/ports/output"
)

// These tests run against a real server and are skipped unless
// TEST_DATABASE_URL points at a database the tests may create tables in.

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

// testPrefix returns an identifier prefix no other run uses.
func testPrefix() string {
	return "CN_ZIT" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func cleanupArtifacts(t *testing.T, pool *pgxpool.Pool, prefix string) {
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = pool.Exec(ctx, `DELETE FROM versionamiento WHERE id_archivo LIKE $1`, prefix+"%")
		_, _ = pool.Exec(ctx, `DELETE FROM archivo WHERE id_archivo LIKE $1`, prefix+"%")
	})
}

func TestIntegration_ArtifactLifecycle(t *testing.T) {
	pool := newTestPool(t)
	prefix := testPrefix()
	cleanupArtifacts(t, pool, prefix)

	ctx := context.Background()
	artifacts := NewArtifactRepository(pool)
	catalog := NewCatalogRepository(pool)

	id := prefix + "_BALANCE"
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, artifacts.Create(ctx,
		&domain.Artifact{ID: id, Description: "Balance general", Path: "uploads/" + id + ".zip"},
		&domain.Version{ArtifactID: id, Version: domain.InitialVersion, Description: "Balance general", User: "JPEREZ", ChangedAt: base},
	))

	err := artifacts.Create(ctx,
		&domain.Artifact{ID: id, Description: "otro", Path: "uploads/otro.zip"},
		&domain.Version{ArtifactID: id, Version: domain.InitialVersion, Description: "otro", User: "JPEREZ", ChangedAt: base},
	)
	assert.ErrorIs(t, err, domain.ErrArtifactExists)

	for i, want := range []int{1001, 1002} {
		got, err := artifacts.Update(ctx, ports.VersionUpdate{
			ArtifactID:  id,
			Description: "Balance revisado",
			Path:        "uploads/" + id + ".zip",
			User:        "AGOMEZ",
			ChangedAt:   base.Add(time.Duration(i+1) * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	listed, err := catalog.ListByPrefix(ctx, prefix, domain.SortByName)
	require.NoError(t, err)
	require.Len(t, listed, 1, "one row per artefact")
	assert.Equal(t, id, listed[0].ID)
	assert.Equal(t, 1002, listed[0].Version)
	assert.Equal(t, "AGOMEZ", listed[0].User)
	assert.True(t, listed[0].ChangedAt.Equal(base.Add(2*time.Hour)))

	found, err := catalog.Search(ctx, strings.ToLower(prefix))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 1002, found[0].Version)

	latest, err := catalog.Latest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1002, latest.Version)

	history, err := artifacts.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []int{1002, 1001, 1000}, []int{history[0].Version, history[1].Version, history[2].Version})

	out, err := artifacts.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "uploads/"+id+".zip", out.Path)
	assert.False(t, out.PathShared)

	_, err = artifacts.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	history, err = artifacts.History(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = artifacts.Delete(ctx, id)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestIntegration_ListingSkipsOlderVersions(t *testing.T) {
	pool := newTestPool(t)
	prefix := testPrefix()
	cleanupArtifacts(t, pool, prefix)

	ctx := context.Background()
	artifacts := NewArtifactRepository(pool)
	catalog := NewCatalogRepository(pool)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	ids := []string{prefix + "_A", prefix + "_B"}
	for i, id := range ids {
		require.NoError(t, artifacts.Create(ctx,
			&domain.Artifact{ID: id, Description: "inicial", Path: "uploads/" + id + ".zip"},
			&domain.Version{ArtifactID: id, Version: domain.InitialVersion, Description: "inicial", User: "JPEREZ", ChangedAt: base.Add(time.Duration(i) * time.Minute)},
		))
	}
	_, err := artifacts.Update(ctx, ports.VersionUpdate{
		ArtifactID: ids[0], Description: "cambio", Path: "uploads/" + ids[0] + ".zip", User: "AGOMEZ", ChangedAt: base.Add(time.Hour),
	})
	require.NoError(t, err)

	listed, err := catalog.ListByPrefix(ctx, prefix, domain.SortByDate)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, ids[0], listed[0].ID, "most recent change first")
	assert.Equal(t, 1001, listed[0].Version)
	assert.Equal(t, ids[1], listed[1].ID)
	assert.Equal(t, 1000, listed[1].Version)
}

func TestIntegration_UpdateWithoutVersionsStartsAfterInitial(t *testing.T) {
	pool := newTestPool(t)
	prefix := testPrefix()
	cleanupArtifacts(t, pool, prefix)

	ctx := context.Background()
	artifacts := NewArtifactRepository(pool)
	id := prefix + "_HUERFANO"

	_, err := pool.Exec(ctx,
		`INSERT INTO archivo (id_archivo, ruta, descripcion) VALUES ($1, $2, $3)`,
		id, "uploads/huerfano.zip", "sin versiones",
	)
	require.NoError(t, err)

	version, err := artifacts.Update(ctx, ports.VersionUpdate{
		ArtifactID: id, Description: "primera", Path: "uploads/huerfano.zip", User: "JPEREZ", ChangedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InitialVersion+1, version)
}

func TestIntegration_DeleteReportsSharedPath(t *testing.T) {
	pool := newTestPool(t)
	prefix := testPrefix()
	cleanupArtifacts(t, pool, prefix)

	ctx := context.Background()
	artifacts := NewArtifactRepository(pool)
	shared := "uploads/" + prefix + "_compartido.zip"
	now := time.Now()

	for _, id := range []string{prefix + "_UNO", prefix + "_DOS"} {
		require.NoError(t, artifacts.Create(ctx,
			&domain.Artifact{ID: id, Description: "compartido", Path: shared},
			&domain.Version{ArtifactID: id, Version: domain.InitialVersion, Description: "compartido", User: "JPEREZ", ChangedAt: now},
		))
	}

	inUse, err := artifacts.PathInUse(ctx, shared)
	require.NoError(t, err)
	assert.True(t, inUse)

	out, err := artifacts.Delete(ctx, prefix+"_UNO")
	require.NoError(t, err)
	assert.True(t, out.PathShared)

	out, err = artifacts.Delete(ctx, prefix+"_DOS")
	require.NoError(t, err)
	assert.False(t, out.PathShared)

	inUse, err = artifacts.PathInUse(ctx, shared)
	require.NoError(t, err)
	assert.False(t, inUse)
}
