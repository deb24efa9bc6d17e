package vault

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"memberdocs/internal/config"
)

// minioVault implements Vault against an S3-compatible backend (MinIO, AWS
// S3, etc.). It is safe for concurrent use by multiple goroutines. Note that
// with this backend there is no single storage file on disk, so database-file
// exports report not found.
type minioVault struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a new S3-compatible vault backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (Vault, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	mv := &minioVault{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return mv, nil
}

func (m *minioVault) Store(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (string, error) {
	if err := ValidateUpload(originalName, contentType, size); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	key := uuid.New().String() + ext

	_, err := m.client.PutObject(ctx, m.bucket, key, io.LimitReader(r, MaxFileSize+1), size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-filename": originalName},
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

func (m *minioVault) Open(ctx context.Context, path string) (io.ReadCloser, FileInfo, error) {
	// Stat first so a missing key is reported before any bytes are read.
	st, err := m.client.StatObject(ctx, m.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, FileInfo{}, ErrNotFound
		}
		return nil, FileInfo{}, fmt.Errorf("stat object: %w", err)
	}
	obj, err := m.client.GetObject(ctx, m.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, FileInfo{}, fmt.Errorf("get object: %w", err)
	}
	return obj, FileInfo{Path: path, Size: st.Size, ModTime: st.LastModified}, nil
}

func (m *minioVault) Exists(ctx context.Context, path string) bool {
	_, err := m.client.StatObject(ctx, m.bucket, path, minio.StatObjectOptions{})
	return err == nil
}

func (m *minioVault) Delete(ctx context.Context, path string) error {
	// RemoveObject is a no-op for missing keys, matching the best-effort
	// delete contract.
	return m.client.RemoveObject(ctx, m.bucket, path, minio.RemoveObjectOptions{})
}

func (m *minioVault) List(ctx context.Context) ([]string, error) {
	var paths []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		paths = append(paths, obj.Key)
	}
	return paths, nil
}
