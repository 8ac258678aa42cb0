// Package content is the opaque binary store for uploaded audio, keyed by
// filename. Backends only need to support sequential writes on ingest and
// random-access reads for range streaming.
package content

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("content not found")

// File is an open handle onto one stored object. ReadAt calls may run
// concurrently; Close releases the handle, not the object.
type File interface {
	io.ReaderAt
	io.Closer
	Length() int64
}

type Store interface {
	Put(ctx context.Context, filename string, r io.Reader) (int64, error)
	Open(ctx context.Context, filename string) (File, error)
	Delete(ctx context.Context, filename string) error
}
