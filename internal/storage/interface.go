package storage

import (
	"context"
	"io"
)

// ObjectStorage is where published almanac documents live.
type ObjectStorage interface {
	// Upload writes an object, replacing any existing one.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download opens an object for reading. The caller closes it.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns the public URL of an object.
	GetURL(key string) string

	// Exists reports whether an object exists.
	Exists(ctx context.Context, key string) (bool, error)
}
