package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilename(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "Sunday_Sermon_20260301_093000.mp3", normalizeFilename("Sunday Sermon.MP3", at))
	assert.Equal(t, "file_20260301_093000.png", normalizeFilename("ééé.png", at))
	assert.Equal(t, "passwd_20260301_093000", normalizeFilename("../../etc/passwd", at))
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", getContentType("hymn.mp3"))
	assert.Equal(t, "image/jpeg", getContentType("thumb.JPG"))
	assert.Equal(t, "application/octet-stream", getContentType("notes.xyz"))
}

func multipartHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocalStorageSaveFile(t *testing.T) {
	dir := t.TempDir()
	ls := NewLocalStorage(dir)

	url, err := ls.SaveFile(context.Background(), multipartHeader(t, "choir practice.mp3", []byte("audio")), "choir practice.mp3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/choir_practice_"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "audio", string(data))
}
