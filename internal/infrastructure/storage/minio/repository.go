package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/adsforge/adsforge/pkg/errors"
)

// DocumentKey builds the object key for an uploaded source document.
func DocumentKey(ownerID, documentID uuid.UUID, filename string) string {
	return "documents/" + ownerID.String() + "/" + documentID.String() + "/" + filename
}

// ADSKey builds the object key for a generated ADS PDF.
func ADSKey(ownerID, applicationID uuid.UUID) string {
	return "ads/" + ownerID.String() + "/" + applicationID.String() + "/ads.pdf"
}

// ReportKey builds the object key for a generated extraction report.
func ReportKey(ownerID, applicationID uuid.UUID) string {
	return "reports/" + ownerID.String() + "/" + applicationID.String() + "/extraction-report.docx"
}

// Put uploads an object.
func (c *Client) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to store object").WithDetail(key)
	}
	return nil
}

// Get downloads an object fully into memory.  Documents are capped at upload
// time, so whole-object reads are fine here.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to fetch object").WithDetail(key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.NotFound("object not found").WithDetail(key)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read object").WithDetail(key)
	}
	return data, nil
}

// Exists reports whether the object is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.api.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeInternal, "failed to stat object").WithDetail(key)
	}
	return true, nil
}

// Remove deletes an object.  Removing a missing object is not an error.
func (c *Client) Remove(ctx context.Context, key string) error {
	err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to remove object").WithDetail(key)
	}
	return nil
}

// PresignedGetURL returns a time-limited download URL for browser clients.
func (c *Client) PresignedGetURL(ctx context.Context, key string) (string, error) {
	u, err := c.api.PresignedGetObject(ctx, c.bucket, key, c.presignExpiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to presign object url").WithDetail(key)
	}
	return u.String(), nil
}
