package storage

import (
	"context"
	"io"
)

// Store persists uploaded files and serves them back by name.
type Store interface {
	// Save writes the file contents and returns the stored filename.
	Save(ctx context.Context, originalName string, contents io.Reader) (string, error)
	// Open returns a reader for a previously stored file.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Remove deletes a stored file. Missing files are not an error.
	Remove(ctx context.Context, name string) error
}
