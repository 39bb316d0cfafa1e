package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mansoorceksport/restshop/internal/config"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOFileStore implements domain.FileStore on MinIO.
// Uploads are buffered before PutObject, so a failing reader aborts the upload
// before any request is made.
type MinIOFileStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOFileStore connects to MinIO and ensures the bucket exists
func NewMinIOFileStore(ctx context.Context, cfg config.MinIOConfig) (*MinIOFileStore, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinIOFileStore{client: cli, bucket: cfg.Bucket}, nil
}

// Put reads r fully and uploads it with a known size. r is bounded by the upload
// size limit; an unknown size would make minio-go allocate a maximum-size part buffer.
func (m *MinIOFileStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read upload %s: %w", key, err)
	}

	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("put object %s: %w", key, err)
	}
	return info.Size, nil
}

func (m *MinIOFileStore) Open(ctx context.Context, key string) (io.ReadCloser, *domain.FileInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object %s: %w", key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("stat object %s: %w", key, err)
	}
	return obj, &domain.FileInfo{
		Path:        key,
		Size:        st.Size,
		ContentType: st.ContentType,
		ModTime:     st.LastModified,
	}, nil
}

func (m *MinIOFileStore) Remove(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
