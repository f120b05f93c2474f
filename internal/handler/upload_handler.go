package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/student-realestate/internal/storage"
	"go.uber.org/zap"
)

type BlobReader interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// UploadHandler serves stored images at their /uploads/<kind>/<name> reference.
type UploadHandler struct {
	blobs BlobReader
	log   *zap.Logger
}

func NewUploadHandler(blobs BlobReader, log *zap.Logger) *UploadHandler {
	return &UploadHandler{blobs: blobs, log: log}
}

func (h *UploadHandler) Serve(c echo.Context) error {
	ref := c.Request().URL.Path
	rc, err := h.blobs.Open(c.Request().Context(), ref)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return c.JSON(http.StatusNotFound, NewErrorResponse("File not found"))
	}
	if err != nil {
		return respondError(c, h.log, failure{internal: "Failed to read file"}, err)
	}
	defer rc.Close()

	ct := mime.TypeByExtension(path.Ext(ref))
	if ct == "" {
		ct = echo.MIMEOctetStream
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, ct, rc)
}
