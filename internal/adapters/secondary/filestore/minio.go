package filestore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"artefact-registry/internal/config"
	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/ports/output"
)

const (
	archiveContentType = "application/zip"
	bucketCheckTimeout = 10 * time.Second
)

// MinIO keeps archives as objects in one bucket, keyed by sanitised filename.
type MinIO struct {
	client *minio.Client
	bucket string
	region string

	mu    sync.Mutex
	ready bool
}

func NewMinIO(cfg config.MinIOConfig) (*MinIO, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	return &MinIO{client: client, bucket: cfg.Bucket, region: region}, nil
}

var _ ports.FileStore = (*MinIO)(nil)

// ensureBucket creates the bucket on first use. A failed check is retried on
// the next call; the check runs detached from the caller's cancellation.
func (s *MinIO) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bucketCheckTimeout)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		log.WithField("bucket", s.bucket).Info("creating artifact bucket")
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	s.ready = true
	return nil
}

func (s *MinIO) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", domain.ErrInvalidFilename
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("%w: ensure bucket: %v", domain.ErrStorage, err)
	}

	info, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: archiveContentType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %v", domain.ErrStorage, name, err)
	}

	log.WithFields(log.Fields{"key": name, "size": info.Size, "etag": info.ETag}).Debug("artifact object stored")
	return name, nil
}

func (s *MinIO) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("%w: ensure bucket: %v", domain.ErrStorage, err)
	}

	// GetObject is lazy; Stat surfaces a missing key before the body is streamed.
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapObjectError(path, err)
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, mapObjectError(path, err)
	}
	return obj, nil
}

func (s *MinIO) Remove(ctx context.Context, path string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("%w: ensure bucket: %v", domain.ErrStorage, err)
	}
	if _, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{}); err != nil {
		return mapObjectError(path, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove %s: %v", domain.ErrStorage, path, err)
	}
	return nil
}

func mapObjectError(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return domain.ErrFileNotFound
	}
	return fmt.Errorf("%w: get %s: %v", domain.ErrStorage, key, err)
}
