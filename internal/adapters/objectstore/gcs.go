package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/SscSPs/ledgerbook/internal/apperrors"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	"google.golang.org/api/option"
)

const gcsTimeout = 2 * time.Minute

// GCSStore keeps objects in a Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ portsrepo.BlobStore = (*GCSStore)(nil)

// NewGCSStore creates a bucket client. An empty credentialsFile uses
// Application Default Credentials.
func NewGCSStore(ctx context.Context, bucket, prefix, credentialsFile string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: GCS bucket is required", apperrors.ErrValidation)
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create storage client: %w", apperrors.ErrStorage, err)
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSStore) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.prefix + key)
}

// Put uploads data. The object only becomes visible once the writer closes.
func (s *GCSStore) Put(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, gcsTimeout)
	defer cancel()

	w := s.object(key).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("%w: upload %s/%s: %w", apperrors.ErrStorage, s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: finalize upload %s/%s: %w", apperrors.ErrStorage, s.bucket, key, err)
	}
	return nil
}

// Get downloads an object.
func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, gcsTimeout)
	defer cancel()

	r, err := s.object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("object %s/%s: %w", s.bucket, key, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open object %s/%s: %w", apperrors.ErrStorage, s.bucket, key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read object %s/%s: %w", apperrors.ErrStorage, s.bucket, key, err)
	}
	return data, nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (s *GCSStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, gcsTimeout)
	defer cancel()

	err := s.object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: delete object %s/%s: %w", apperrors.ErrStorage, s.bucket, key, err)
	}
	return nil
}

// Close releases the client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
