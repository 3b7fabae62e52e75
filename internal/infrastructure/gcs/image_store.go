package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/samber/oops"
	"google.golang.org/api/option"
)

// NewClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// ImageStore uploads beer images into one bucket.
type ImageStore struct {
	client *storage.Client
	bucket string
}

func NewImageStore(client *storage.Client, bucket string) *ImageStore {
	return &ImageStore{client: client, bucket: bucket}
}

func (s *ImageStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	wc := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // images are small, skip resumable uploads
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", oops.With("operation", "upload image").With("object", objectPath).Wrap(err)
	}
	if err := wc.Close(); err != nil {
		return "", oops.With("operation", "finalize image").With("object", objectPath).Wrap(err)
	}
	return PublicURL(s.bucket, objectPath), nil
}

func (s *ImageStore) Delete(ctx context.Context, objectPath string) error {
	err := s.client.Bucket(s.bucket).Object(objectPath).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return oops.With("operation", "delete image").With("object", objectPath).Wrap(err)
	}
	return nil
}

// PublicURL assumes the bucket grants public read.
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
