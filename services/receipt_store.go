package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReceiptStore keeps receipt photos of purchased goods.
type ReceiptStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Bucket() string
}

type MinioReceiptStore struct {
	client *minio.Client
	bucket string
}

func NewMinioReceiptStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioReceiptStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioReceiptStore{client: client, bucket: bucket}, nil
}

// EnsureBucket creates the bucket on first start.
func (s *MinioReceiptStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

func (s *MinioReceiptStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// URL returns a presigned download link valid for one hour.
func (s *MinioReceiptStore) URL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, time.Hour, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *MinioReceiptStore) Bucket() string {
	return s.bucket
}

// ReceiptKey is the object key of one uploaded receipt.
func ReceiptKey(prCode, id, fileName string) string {
	return path.Join("receipts", prCode, id+path.Ext(fileName))
}
