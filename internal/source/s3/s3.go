// internal/source/s3/s3.go

// Package s3 serves s3:// locations through the AWS SDK v2.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"fastadiff/internal/source"
)

// Scheme is the URI scheme served by this backend.
const Scheme = "s3"

// Client is the subset of *s3.Client used here.
type Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Options configures the client built by NewFromConfig.
type Options struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

// Backend implements source.Backend for S3.
type Backend struct {
	client   Client
	partSize int64
}

// New wraps an existing client.
func New(client Client) *Backend {
	return &Backend{client: client, partSize: 8 * 1024 * 1024}
}

// NewFromConfig loads the default AWS credential chain and builds a client.
func NewFromConfig(ctx context.Context, o Options) (*Backend, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if o.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(o.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
		so.UsePathStyle = o.PathStyle
	})
	return New(client), nil
}

// Open streams the object body.
func (b *Backend) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("s3://%s/%s: %w", bucket, key, source.ErrNotFound)
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("s3://%s/%s: %w", bucket, key, source.ErrNotFound)
		}
		return nil, fmt.Errorf("s3://%s/%s: %w", bucket, key, err)
	}
	return resp.Body, nil
}

// Create returns a writer whose bytes are uploaded with the multipart manager.
func (b *Backend) Create(ctx context.Context, bucket, key string) (io.WriteCloser, error) {
	uploader := manager.NewUploader(b.client, func(u *manager.Uploader) {
		u.PartSize = b.partSize
	})
	return source.NewPipeWriter(func(r io.Reader) error {
		_, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   r,
		})
		if err != nil {
			return fmt.Errorf("s3://%s/%s: %w", bucket, key, err)
		}
		return nil
	}), nil
}
