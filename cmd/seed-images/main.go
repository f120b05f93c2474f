package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/shinyyama/student-realestate/internal/config"
	"github.com/shinyyama/student-realestate/internal/db"
	"github.com/shinyyama/student-realestate/internal/gcloud"
	"github.com/shinyyama/student-realestate/internal/model"
	"github.com/shinyyama/student-realestate/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Options are read on top of the service configuration.
type Options struct {
	PerListing     int    `env:"IMAGES_PER_LISTING" envDefault:"2"`
	SampleDir      string `env:"SAMPLE_IMAGES_DIR"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"300"`
}

type image struct {
	name        string
	contentType string
	data        []byte
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed-images failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return fmt.Errorf("parse options: %w", err)
	}
	if opts.PerListing < 1 || opts.PerListing > storage.MaxFiles {
		return fmt.Errorf("IMAGES_PER_LISTING must be between 1 and %d", storage.MaxFiles)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(opts.TimeoutSeconds)*time.Second)
	defer cancel()

	store, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer store.Close(context.Background())

	gopts, err := gcloud.ClientOptions(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		return err
	}
	backend, err := storage.NewFromConfig(ctx, cfg, gopts, zap.NewNop())
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	uploader := storage.NewUploader(backend, zap.NewNop(), nil)

	coll, err := store.Listings()
	if err != nil {
		return err
	}
	cur, err := coll.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"images": bson.M{"$size": 0}},
		bson.M{"images": nil},
	}})
	if err != nil {
		return fmt.Errorf("find listings: %w", err)
	}
	var listings []model.Listing
	if err := cur.All(ctx, &listings); err != nil {
		return fmt.Errorf("decode listings: %w", err)
	}
	if len(listings) == 0 {
		log.Printf("every listing already has images; nothing to do")
		return nil
	}

	var samples []image
	if opts.SampleDir != "" {
		if samples, err = loadSamples(opts.SampleDir); err != nil {
			return err
		}
		log.Printf("loaded %d sample images from %s", len(samples), opts.SampleDir)
	}

	for i, l := range listings {
		imgs := make([]image, 0, opts.PerListing)
		for k := 0; k < opts.PerListing; k++ {
			if len(samples) > 0 {
				imgs = append(imgs, samples[(i*opts.PerListing+k)%len(samples)])
				continue
			}
			data, err := fetchPlaceholder(ctx, fmt.Sprintf("%s-%d", l.ID.Hex(), k))
			if err != nil {
				return fmt.Errorf("placeholder for %s: %w", l.ID.Hex(), err)
			}
			imgs = append(imgs, image{name: fmt.Sprintf("%d.jpg", k), contentType: "image/jpeg", data: data})
		}

		refs, err := uploader.Store(ctx, storage.KindListing, toUploads(imgs))
		if err != nil {
			return fmt.Errorf("store images for %s: %w", l.ID.Hex(), err)
		}
		_, err = coll.UpdateOne(ctx,
			bson.M{"_id": l.ID},
			bson.M{"$set": bson.M{"images": refs, "updatedAt": time.Now().UTC()}},
		)
		if err != nil {
			uploader.Remove(ctx, refs)
			return fmt.Errorf("update listing %s: %w", l.ID.Hex(), err)
		}
		log.Printf("[%s] attached %d images", l.ID.Hex(), len(refs))
	}
	return nil
}

func toUploads(imgs []image) []storage.Upload {
	uploads := make([]storage.Upload, 0, len(imgs))
	for _, img := range imgs {
		img := img
		uploads = append(uploads, storage.Upload{
			Field:       storage.FieldName,
			Filename:    img.name,
			ContentType: img.contentType,
			Size:        int64(len(img.data)),
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(img.data)), nil
			},
		})
	}
	return uploads
}

var sampleTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

func loadSamples(dir string) ([]image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sample dir: %w", err)
	}
	var out []image
	for _, e := range entries {
		ct, ok := sampleTypes[filepath.Ext(e.Name())]
		if e.IsDir() || !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		out = append(out, image{name: e.Name(), contentType: ct, data: data})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no images in %s", dir)
	}
	return out, nil
}

func fetchPlaceholder(ctx context.Context, seed string) ([]byte, error) {
	u := fmt.Sprintf("https://picsum.photos/seed/%s/800/600", url.PathEscape(seed))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("placeholder status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, storage.MaxFileSize))
}
