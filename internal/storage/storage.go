package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that would escape the flat key space.
var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore persists uploaded files under flat, system-assigned keys.
type ObjectStore interface {
	// Put writes size bytes from body under key.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Delete removes key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public location of key.
	URL(key string) string
}
