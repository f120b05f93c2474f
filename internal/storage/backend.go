package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

// Backend is a flat blob store keyed by slash-separated paths such as "realestate/images-1.png".
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Open returns ErrObjectNotFound when key does not exist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete returns ErrObjectNotFound when key does not exist.
	Delete(ctx context.Context, key string) error
}
