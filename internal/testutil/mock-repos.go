package testutil

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/ports/output"
)

// MockArtifactRepo is a mock of ArtifactRepository.
type MockArtifactRepo struct {
	mock.Mock
}

func (m *MockArtifactRepo) Create(ctx context.Context, artifact *domain.Artifact, initial *domain.Version) error {
	args := m.Called(ctx, artifact, initial)
	return args.Error(0)
}

func (m *MockArtifactRepo) Get(ctx context.Context, id string) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) Update(ctx context.Context, upd ports.VersionUpdate) (int, error) {
	args := m.Called(ctx, upd)
	return args.Int(0), args.Error(1)
}

func (m *MockArtifactRepo) Delete(ctx context.Context, id string) (*ports.DeleteOutcome, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DeleteOutcome), args.Error(1)
}

func (m *MockArtifactRepo) History(ctx context.Context, id string) ([]*domain.Version, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Version), args.Error(1)
}

func (m *MockArtifactRepo) PathInUse(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

// MockCatalogRepo is a mock of CatalogRepository.
type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) ListByPrefix(ctx context.Context, prefix string, sort domain.SortKey) ([]*domain.ArtifactSummary, error) {
	args := m.Called(ctx, prefix, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ArtifactSummary), args.Error(1)
}

func (m *MockCatalogRepo) Search(ctx context.Context, term string) ([]*domain.ArtifactSummary, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ArtifactSummary), args.Error(1)
}

func (m *MockCatalogRepo) Latest(ctx context.Context, id string) (*domain.ArtifactSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArtifactSummary), args.Error(1)
}

// MockUserRepo is a mock of UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockFileStore is a mock of FileStore.
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, name, r, size)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStore) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
