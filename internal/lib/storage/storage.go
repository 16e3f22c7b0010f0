// Package storage persists uploaded files on local disk and optionally
// mirrors them into MinIO/S3 compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/deppfellow/locallibrary/internal/config"
)

// LocalStore writes files into one fixed directory.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures dir exists.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir is the destination directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes r to <dir>/<name>, replacing any existing file, and returns
// the destination path. The name is used as given.
func (s *LocalStore) Save(name string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// MinioMirror copies local files into a bucket.
type MinioMirror struct {
	client *minio.Client
	bucket string
}

// NewMinioMirror connects to MinIO and ensures the bucket exists.
func NewMinioMirror(cfg config.StorageConfig) (*MinioMirror, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioMirror{client: client, bucket: cfg.MinioBucket}, nil
}

// Put uploads the file at path under key.
func (m *MinioMirror) Put(ctx context.Context, key, path string) error {
	if _, err := m.client.FPutObject(ctx, m.bucket, key, path, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}
