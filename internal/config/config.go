package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
	StorageS3    = "s3"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	MongoURI       string        `env:"MONGO_URI,required,notEmpty"`
	MongoDB        string        `env:"MONGO_DB" envDefault:"student-realestate"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"local"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	StorageBucket  string `env:"STORAGE_BUCKET"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3UseSSL       bool   `env:"S3_USE_SSL" envDefault:"false"`

	GoogleCredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseProjectID     string `env:"FIREBASE_PROJECT_ID"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	BodyLimit       string        `env:"BODY_LIMIT" envDefault:"110M"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageLocal:
		if c.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR must not be empty for %s storage", StorageLocal)
		}
	case StorageGCS:
		if c.StorageBucket == "" {
			return fmt.Errorf("STORAGE_BUCKET is required for %s storage", StorageGCS)
		}
	case StorageS3:
		if c.StorageBucket == "" || c.S3Endpoint == "" {
			return fmt.Errorf("STORAGE_BUCKET and S3_ENDPOINT are required for %s storage", StorageS3)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

// AuthEnabled reports whether moderation routes are guarded by Firebase auth.
func (c *Config) AuthEnabled() bool {
	return c.FirebaseProjectID != ""
}
