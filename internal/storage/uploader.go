package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shinyyama/student-realestate/internal/metrics"
	"github.com/shinyyama/student-realestate/internal/reqctx"
	"go.uber.org/zap"
)

const (
	KindListing = "realestate"
	KindStudent = "students"

	FieldName   = "images"
	MaxFiles    = 10
	MaxFileSize = 10 << 20

	URLPrefix = "/uploads/"
)

var ErrUploadRejected = errors.New("upload rejected")

// Rejected wraps ErrUploadRejected with a client-facing reason.
func Rejected(reason string) error {
	return fmt.Errorf("%w: %s", ErrUploadRejected, reason)
}

// Reason returns the client-facing part of an ErrUploadRejected error.
func Reason(err error) string {
	return strings.TrimPrefix(err.Error(), ErrUploadRejected.Error()+": ")
}

// Upload is one incoming file.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FromMultipart adapts parsed multipart file headers submitted under field.
func FromMultipart(field string, headers []*multipart.FileHeader) []Upload {
	uploads := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		uploads = append(uploads, Upload{
			Field:       field,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads
}

type Uploader struct {
	backend Backend
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewUploader(backend Backend, log *zap.Logger, m *metrics.Metrics) *Uploader {
	return &Uploader{backend: backend, log: log, metrics: m, now: time.Now}
}

// Store validates the whole batch, then writes each file under kind and returns
// one /uploads/<kind>/<name> reference per upload, in input order.
func (u *Uploader) Store(ctx context.Context, kind string, uploads []Upload) ([]string, error) {
	if kind != KindListing && kind != KindStudent {
		return nil, fmt.Errorf("unknown upload kind %q", kind)
	}
	if err := Validate(uploads); err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(uploads))
	for _, up := range uploads {
		key := path.Join(kind, u.filename(up))
		if err := u.put(ctx, key, up); err != nil {
			u.Remove(ctx, refs)
			return nil, err
		}
		refs = append(refs, URLPrefix+key)
	}
	u.metrics.BlobsStored(len(refs))
	return refs, nil
}

// Validate checks a batch without writing anything. Failures wrap ErrUploadRejected.
func Validate(uploads []Upload) error {
	if len(uploads) > MaxFiles {
		return Rejected("Too many files")
	}
	for _, up := range uploads {
		if up.Field != FieldName {
			return Rejected("Unexpected field")
		}
		if !strings.HasPrefix(strings.ToLower(up.ContentType), "image/") {
			return Rejected("Only image files are allowed!")
		}
		if up.Size > MaxFileSize {
			return Rejected("File too large")
		}
	}
	return nil
}

func (u *Uploader) filename(up Upload) string {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	return fmt.Sprintf("%s-%d-%s%s", up.Field, u.now().UnixMilli(), uuid.NewString(), ext)
}

func (u *Uploader) put(ctx context.Context, key string, up Upload) error {
	rc, err := up.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", up.Filename, err)
	}
	defer rc.Close()
	return u.backend.Put(ctx, key, rc, up.Size, up.ContentType)
}

// Remove deletes the referenced blobs. Missing blobs and references outside
// /uploads/ are skipped; other failures are logged and never returned.
func (u *Uploader) Remove(ctx context.Context, refs []string) {
	removed := 0
	for _, ref := range refs {
		key, ok := KeyFromRef(ref)
		if !ok {
			u.log.Warn("skipping blob outside upload prefix",
				zap.String("rid", reqctx.RID(ctx)), zap.String("ref", ref))
			continue
		}
		err := u.backend.Delete(ctx, key)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, ErrObjectNotFound):
		default:
			u.log.Error("blob delete failed",
				zap.String("rid", reqctx.RID(ctx)), zap.String("key", key), zap.Error(err))
		}
	}
	u.metrics.BlobsRemoved(removed)
}

// Open streams the blob behind ref.
func (u *Uploader) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	key, ok := KeyFromRef(ref)
	if !ok {
		return nil, ErrObjectNotFound
	}
	return u.backend.Open(ctx, key)
}

// KeyFromRef maps "/uploads/<kind>/<name>" to the backend key "<kind>/<name>".
func KeyFromRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, URLPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(path.Clean(ref), URLPrefix)
	kind, name, ok := strings.Cut(key, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	if kind != KindListing && kind != KindStudent {
		return "", false
	}
	return key, true
}
