package upload

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"portfolio-admin/internal/config"
	"portfolio-admin/internal/storage"
)

// MinIOStore MinIO 对象存储后端
type MinIOStore struct {
	mc     *minio.Client
	bucket string
}

// NewMinIOStore 创建 MinIO 存储后端
func NewMinIOStore(cfg config.MinIOConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access_key and secret_key are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "portfolio-uploads"
	}

	return &MinIOStore{mc: mc, bucket: bucket}, nil
}

// EnsureBucket 确保 bucket 存在
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		log.Printf("[minio] Created bucket: %s", s.bucket)
	}
	return nil
}

// Save 上传对象
func (s *MinIOStore) Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.mc.PutObject(ctx, s.bucket, filename, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", filename, err)
	}
	return nil
}

// Open 下载对象，调用方负责关闭返回的 ReadCloser
func (s *MinIOStore) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	obj, err := s.mc.GetObject(ctx, s.bucket, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", filename, err)
	}
	// 验证对象存在（GetObject 不会立即返回错误）
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", filename, err)
	}
	return obj, nil
}

// Delete 删除对象，不存在时返回 ErrNotFound
func (s *MinIOStore) Delete(ctx context.Context, filename string) error {
	_, err := s.mc.StatObject(ctx, s.bucket, filename, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return storage.ErrNotFound
		}
		return err
	}
	return s.mc.RemoveObject(ctx, s.bucket, filename, minio.RemoveObjectOptions{})
}
