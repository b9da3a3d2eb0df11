// Package minio stores document blobs: uploaded source files, generated ADS
// PDFs, and extraction reports.  Object keys are namespaced by owner and
// document so listing a user's files is a prefix scan.
package minio

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

// API is the subset of minio-go the client uses; tests substitute a fake.
type API interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Client wraps the MinIO SDK for one bucket.
type Client struct {
	api           API
	bucket        string
	presignExpiry time.Duration
	log           logging.Logger
}

// NewClient connects to MinIO and ensures the configured bucket exists.
func NewClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	c := &Client{api: api, bucket: cfg.Bucket, presignExpiry: cfg.PresignExpiry, log: log}
	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return c, nil
}

// NewClientWithAPI wires a pre-built API, used by tests.
func NewClientWithAPI(api API, bucket string, presignExpiry time.Duration, log logging.Logger) *Client {
	return &Client{api: api, bucket: bucket, presignExpiry: presignExpiry, log: log}
}

func (c *Client) ensureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to check bucket")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create bucket")
	}
	c.log.Info("created bucket", logging.String("bucket", c.bucket))
	return nil
}

// HealthCheck verifies the bucket is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.BucketExists(ctx, c.bucket); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "minio health check failed")
	}
	return nil
}
