package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shinyyama/student-realestate/internal/config"
	"github.com/shinyyama/student-realestate/internal/db"
	"github.com/shinyyama/student-realestate/internal/gcloud"
	"github.com/shinyyama/student-realestate/internal/logger"
	"github.com/shinyyama/student-realestate/internal/metrics"
	appmw "github.com/shinyyama/student-realestate/internal/middleware"
	"github.com/shinyyama/student-realestate/internal/repository"
	"github.com/shinyyama/student-realestate/internal/server"
	"github.com/shinyyama/student-realestate/internal/service"
	"github.com/shinyyama/student-realestate/internal/storage"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	store, err := db.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			zl.Warn("mongo disconnect", zap.Error(err))
		}
	}()
	if err := ensureIndexes(ctx, store, zl); err != nil {
		return err
	}
	zl.Info("connected to mongo", zap.String("db", cfg.MongoDB))

	gopts, err := gcloud.ClientOptions(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		return err
	}

	backend, err := storage.NewFromConfig(ctx, cfg, gopts, zl)
	if err != nil {
		return err
	}
	if c, ok := backend.(io.Closer); ok {
		defer c.Close()
	}
	m := metrics.New()
	uploader := storage.NewUploader(backend, zl, m)

	listingRepo := repository.NewListingRepository(store)
	contactRepo := repository.NewContactRepository(store)
	adminRepo := repository.NewAdminRepository(store)

	var authMw *appmw.AuthMiddleware
	if cfg.AuthEnabled() {
		authMw, err = appmw.NewAuthMiddleware(ctx, cfg.FirebaseProjectID, gopts, adminRepo, zl)
		if err != nil {
			return fmt.Errorf("firebase auth: %w", err)
		}
		zl.Info("moderation routes require admin auth", zap.String("project", cfg.FirebaseProjectID))
	}

	srv := server.New(server.Deps{
		Config:   cfg,
		Log:      zl,
		Metrics:  m,
		Listings: service.NewListingService(listingRepo, uploader, zl, m),
		Contacts: service.NewContactService(contactRepo, uploader, zl, m),
		Blobs:    uploader,
		DB:       store,
		Auth:     authMw,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// ensureIndexes tolerates a missing unique inquiry index so a database holding
// legacy duplicates still starts; duplicates are then caught by the pre-check only.
func ensureIndexes(ctx context.Context, store indexer, zl *zap.Logger) error {
	err := store.EnsureIndexes(ctx)
	if errors.Is(err, db.ErrInquiryIndex) {
		zl.Warn("running without unique inquiry index; remove duplicate contacts and restart",
			zap.String("index", db.InquiryIndexName), zap.Error(err))
		return nil
	}
	return err
}
