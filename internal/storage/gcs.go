package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
)

// GCSStorage uploads into a Cloud Storage bucket with public object URLs.
type GCSStorage struct {
	client *storage.Client
	bucket string
}

func NewGCSStorage(ctx context.Context, bucket string) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (gs *GCSStorage) SaveFile(ctx context.Context, fileHeader *multipart.FileHeader, filename string) (string, error) {
	normalizedFilename := normalizeFilename(filename, time.Now())
	key := "uploads/" + normalizedFilename

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	writer := gs.client.Bucket(gs.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = getContentType(normalizedFilename)
	if _, err := io.Copy(writer, src); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to upload to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		log.Error().Err(err).Str("bucket", gs.bucket).Msg("Failed to finalize GCS upload")
		return "", fmt.Errorf("failed to upload to GCS: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", gs.bucket, key), nil
}

func (gs *GCSStorage) Close() error {
	return gs.client.Close()
}
