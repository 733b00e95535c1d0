// Package storage provides the CDN storage backends for component-media.
// Providers receive content-addressed keys (see image.CDNRelPath) and store
// encoded image bytes under them.
package storage

import (
	"context"
	"io"
)

// Provider is a CDN storage backend
type Provider interface {
	// Name returns the provider identifier ("local", "oss").
	Name() string

	// Put stores the content under the given key and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader) (string, error)

	// Exists reports whether an object is stored under the key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object stored under the key. Deleting a missing
	// object is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for a key without touching the backend.
	URL(key string) string
}
