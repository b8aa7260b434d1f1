package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/feedbackge/ai-backend/internal/config"
)

// Archive keeps a copy of uploaded import documents.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

type s3Archive struct {
	client *minio.Client
	bucket string
}

// NewArchive connects to the configured S3-compatible endpoint and makes
// sure the bucket exists. Without an endpoint it returns a no-op archive.
func NewArchive(ctx context.Context, cfg *config.Config) (Archive, error) {
	if cfg.S3Endpoint == "" {
		return Nop{}, nil
	}

	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.S3BucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.S3BucketName, err)
		}
	}

	return &s3Archive{client: client, bucket: cfg.S3BucketName}, nil
}

func (a *s3Archive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Nop discards everything. Used when no object store is configured.
type Nop struct{}

func (Nop) Put(context.Context, string, []byte, string) error { return nil }
