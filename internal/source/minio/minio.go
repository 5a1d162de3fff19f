// internal/source/minio/minio.go

// Package minio serves minio:// locations on MinIO and other S3-compatible stores.
package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"fastadiff/internal/source"
)

// Scheme is the URI scheme served by this backend.
const Scheme = "minio"

// Options configures the MinIO client.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// Backend implements source.Backend for MinIO.
type Backend struct {
	client *minio.Client
}

// New builds a client for o.Endpoint with static credentials.
func New(o Options) (*Backend, error) {
	if o.Endpoint == "" {
		return nil, fmt.Errorf("minio: endpoint is required")
	}
	client, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	return &Backend{client: client}, nil
}

// Open stats the object, then streams it.
func (b *Backend) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if _, err := b.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, fmt.Errorf("minio://%s/%s: %w", bucket, key, source.ErrNotFound)
		}
		return nil, fmt.Errorf("minio://%s/%s: %w", bucket, key, err)
	}
	obj, err := b.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio://%s/%s: %w", bucket, key, err)
	}
	return obj, nil
}

// Create streams writes into a PutObject of unknown size.
func (b *Backend) Create(ctx context.Context, bucket, key string) (io.WriteCloser, error) {
	return source.NewPipeWriter(func(r io.Reader) error {
		_, err := b.client.PutObject(ctx, bucket, key, r, -1, minio.PutObjectOptions{})
		if err != nil {
			return fmt.Errorf("minio://%s/%s: %w", bucket, key, err)
		}
		return nil
	}), nil
}
