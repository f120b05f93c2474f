package handler

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/student-realestate/internal/storage"
)

// formUploads returns every file part of a multipart request, the "images" field first.
// Non-multipart requests carry no files.
func formUploads(c echo.Context) ([]storage.Upload, error) {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, storage.Rejected(err.Error())
	}

	uploads := storage.FromMultipart(storage.FieldName, form.File[storage.FieldName])
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		if field != storage.FieldName {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	for _, field := range fields {
		uploads = append(uploads, storage.FromMultipart(field, form.File[field])...)
	}
	return uploads, nil
}

type statusRequest struct {
	Status json.RawMessage `json:"status"`
}

// bindStatus reads {"status": <bool>}. Anything other than a JSON boolean yields nil.
func bindStatus(c echo.Context) *bool {
	var req statusRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return nil
	}
	var v bool
	switch {
	case bytes.Equal(req.Status, []byte("true")):
		v = true
	case bytes.Equal(req.Status, []byte("false")):
		v = false
	default:
		return nil
	}
	return &v
}
