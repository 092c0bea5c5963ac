// Package upload 文件上传领域 - 校验、命名与存储
//
// 存储后端通过 BlobStore 抽象：默认落本地磁盘，配置 MinIO 端点后
// 切换到对象存储。两种后端共享同一套类型/大小校验和命名方案。
package upload

import (
	"context"
	"io"
)

// BlobStore 上传文件的存储后端抽象
//
// Save 在目标已存在时必须失败（命名方案保证实际不会碰撞）；
// Open/Delete 在目标不存在时返回 storage.ErrNotFound。
type BlobStore interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
	Delete(ctx context.Context, filename string) error
}
