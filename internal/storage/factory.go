package storage

import (
	"context"

	"github.com/shinyyama/student-realestate/internal/config"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// NewFromConfig builds the backend selected by STORAGE_BACKEND.
func NewFromConfig(ctx context.Context, cfg *config.Config, gopts []option.ClientOption, log *zap.Logger) (Backend, error) {
	switch cfg.StorageBackend {
	case config.StorageGCS:
		return NewGCSBackend(ctx, cfg.StorageBucket, gopts...)
	case config.StorageS3:
		return NewS3Backend(ctx, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.StorageBucket, cfg.S3UseSSL, log)
	default:
		return NewLocalBackend(cfg.UploadDir)
	}
}
