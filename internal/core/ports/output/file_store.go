package ports

import (
	"context"
	"io"
)

// FileStore persists uploaded artefact archives. Paths returned by Save are
// what the catalog records and what Open and Remove accept.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}
