// Package blobstore abstracts the byte-level storage of sealed segment
// chunks. A Store holds immutable blobs under flat string keys; segment
// lifecycle (sealing, cataloging, erasure) lives above it in package
// store.
//
// Implementations must be safe for concurrent use.
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error satisfying errors.Is(err, ErrNotFound).
// The default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// Store reads and writes immutable blobs.
type Store interface {
	// Put writes the blob under key, replacing any previous content.
	// The write is atomic: readers see either the old blob or the new
	// one, never a partial write.
	Put(ctx context.Context, key string, r io.Reader) error
	// Get opens the blob under key for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob under key. Deleting a missing blob is not
	// an error.
	Delete(ctx context.Context, key string) error
	// List returns the keys under the given prefix in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Mapper is an optional interface for stores that can expose a blob as a
// zero-copy byte slice. Callers must invoke the returned close function
// when done with the bytes.
type Mapper interface {
	Map(key string) (data []byte, close func() error, err error)
}
