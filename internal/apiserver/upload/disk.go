package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"portfolio-admin/internal/storage"
)

// DiskStore 本地磁盘存储后端
type DiskStore struct {
	dir string
}

// NewDiskStore 创建磁盘存储，目录不存在时自动创建
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save 写入文件，目标已存在时失败（O_EXCL）
func (d *DiskStore) Save(_ context.Context, filename string, r io.Reader, _ int64, _ string) error {
	path := filepath.Join(d.dir, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return f.Close()
}

// Open 打开文件用于静态服务，调用方负责关闭
func (d *DiskStore) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete 删除文件，不存在时返回 ErrNotFound（无软删除）
func (d *DiskStore) Delete(_ context.Context, filename string) error {
	err := os.Remove(filepath.Join(d.dir, filename))
	if os.IsNotExist(err) {
		return storage.ErrNotFound
	}
	return err
}
