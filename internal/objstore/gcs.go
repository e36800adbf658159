package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSBucket implements Bucket with the Google Cloud Storage client.
type GCSBucket struct {
	client *storage.Client
	bucket string
}

var _ Bucket = &GCSBucket{} // Compile-time check

// NewGCSBucket creates a client using application default credentials.
// Extra client options, e.g. option.WithEndpoint for an emulator, are passed through.
func NewGCSBucket(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSBucket, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSBucket{client: client, bucket: bucket}, nil
}

// Kind implements Bucket.
func (b *GCSBucket) Kind() string { return "gcs" }

// Read implements Bucket.
func (b *GCSBucket) Read(ctx context.Context, name string) ([]byte, error) {
	rc, err := b.client.Bucket(b.bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open GCS object %q: %w", name, err)
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// Write implements Bucket.
func (b *GCSBucket) Write(ctx context.Context, name string, data []byte) error {
	w := b.client.Bucket(b.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write GCS object %q: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write GCS object %q: %w", name, err)
	}
	return nil
}

// Delete implements Bucket.
func (b *GCSBucket) Delete(ctx context.Context, name string) error {
	err := b.client.Bucket(b.bucket).Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q: %w", name, err)
	}
	return nil
}

// List implements Bucket.
func (b *GCSBucket) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	it := b.client.Bucket(b.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// Close implements Bucket.
func (b *GCSBucket) Close() error {
	return b.client.Close()
}
