package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage 把照片写入本地目录，由 HTTP 层按 urlPrefix 静态托管。
type LocalStorage struct {
	root      string
	urlPrefix string
}

func NewLocalStorage(root, urlPrefix string) *LocalStorage {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStorage{root: root, urlPrefix: urlPrefix}
}

func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader, size int64, _ string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := secureJoin(s.root, key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("create object: %w", err)
	}
	written, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(target)
		return nil, fmt.Errorf("write object: %w", errors.Join(copyErr, closeErr))
	}
	if size >= 0 && written != size {
		_ = os.Remove(target)
		return nil, fmt.Errorf("write object: short write %d/%d", written, size)
	}

	return &Object{Key: key, URL: s.urlPrefix + key, Size: written}, nil
}

// Delete 删除对象，对象本就不存在时视为成功。
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := secureJoin(s.root, key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
