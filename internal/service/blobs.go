package service

import (
	"context"

	"github.com/shinyyama/student-realestate/internal/storage"
)

// BlobStore is the subset of *storage.Uploader the services need.
type BlobStore interface {
	Store(ctx context.Context, kind string, uploads []storage.Upload) ([]string, error)
	Remove(ctx context.Context, refs []string)
}
