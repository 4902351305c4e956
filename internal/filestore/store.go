// Package filestore defines the sink schema reports are exported to.
//
// The local filesystem store lives in this package. Object storage
// providers live in their own packages and implement the same Store
// interface, so callers depend only on this package.
//
// Usage:
//
//	store, err := filestore.NewLocal(filestore.DefaultConfig("doc"))
//	if err != nil { ... }
//	defer store.Close()
//
//	info, err := store.Put(ctx, "schema_info.txt", r, size, "text/plain")
package filestore

import (
	"context"
	"io"
)

// Store is the single interface all file storage providers must implement.
// Keys are slash separated and relative to the store's root or bucket.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// Put writes size bytes from r under key, replacing any previous
	// object. A negative size means unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*ObjectInfo, error)

	// Get opens a streaming handle to the object at key.
	// The caller MUST call Object.Close() after reading.
	Get(ctx context.Context, key string) (Object, error)

	// Stat returns metadata for the object at key without reading its
	// content.
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
}
