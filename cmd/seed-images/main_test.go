package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/shinyyama/student-realestate/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSamples(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.webp"), []byte("webp"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	samples, err := loadSamples(dir)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "image/png", samples[0].contentType)
	assert.Equal(t, "image/webp", samples[1].contentType)
}

func TestLoadSamplesEmpty(t *testing.T) {
	_, err := loadSamples(t.TempDir())
	assert.Error(t, err)
}

func TestToUploadsPassesValidation(t *testing.T) {
	uploads := toUploads([]image{
		{name: "a.png", contentType: "image/png", data: []byte("aaa")},
		{name: "b.jpg", contentType: "image/jpeg", data: []byte("bb")},
	})
	require.NoError(t, storage.Validate(uploads))

	rc, err := uploads[1].Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "bb", string(data))
	assert.EqualValues(t, 2, uploads[1].Size)
}
