package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "student-realestate", cfg.MongoDB)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("MONGO_DB", "rentals")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("FIREBASE_PROJECT_ID", "campus-homes")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "rentals", cfg.MongoDB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.AuthEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"local", Config{StorageBackend: StorageLocal, UploadDir: "uploads"}, false},
		{"local without dir", Config{StorageBackend: StorageLocal}, true},
		{"gcs with bucket", Config{StorageBackend: StorageGCS, StorageBucket: "b"}, false},
		{"gcs without bucket", Config{StorageBackend: StorageGCS}, true},
		{"s3 complete", Config{StorageBackend: StorageS3, StorageBucket: "b", S3Endpoint: "minio:9000"}, false},
		{"s3 without endpoint", Config{StorageBackend: StorageS3, StorageBucket: "b"}, true},
		{"unknown", Config{StorageBackend: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
