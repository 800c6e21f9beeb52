package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/studio-b12/gowebdav"

	"github.com/voidovo/imgtoss-sub000/config"
)

// webdavStorage WebDAV 适配器。认证走 Basic Auth，没有签名协议。
// AccessKeyID/AccessKeySecret 复用为用户名/密码。
type webdavStorage struct {
	cfg     config.StorageConfig
	client  *gowebdav.Client
	baseURL string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者
func NewWebDAVStorage(cfg config.StorageConfig) Provider {
	client := gowebdav.NewClient(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	return &webdavStorage{
		cfg:     cfg,
		client:  client,
		baseURL: strings.TrimRight(cfg.Endpoint, "/"),
	}
}

func (s *webdavStorage) Name() string {
	return string(config.ProviderWebDAV)
}

// runWithContext gowebdav 的调用不接受 context，
// 包一层使取消/超时能够中断等待（底层请求仍会跑完）。
func runWithContext(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Upload 上传对象，进度在 0% 和 100% 各上报一次
func (s *webdavStorage) Upload(ctx context.Context, key string, data []byte, contentType string, progress ProgressFunc) (string, error) {
	key = strings.TrimLeft(key, "/")
	total := int64(len(data))

	emitProgress(progress, key, 0, 0, total)

	err := runWithContext(ctx, func() error {
		if dir := path.Dir("/" + key); dir != "/" && dir != "." {
			if err := s.client.MkdirAll(dir, os.FileMode(0755)); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
		return s.client.Write("/"+key, data, 0644)
	})
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}

	emitProgress(progress, key, 100, total, total)
	return s.ObjectURL(key), nil
}

// Delete 删除对象
func (s *webdavStorage) Delete(ctx context.Context, key string) error {
	key = strings.TrimLeft(key, "/")
	err := runWithContext(ctx, func() error {
		return s.client.Remove("/" + key)
	})
	if err != nil {
		return &DeleteError{Key: key, Err: err}
	}
	return nil
}

// List 读取前缀对应目录的条目
func (s *webdavStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	dir := "/" + strings.TrimLeft(prefix, "/")

	var objects []ObjectInfo
	err := runWithContext(ctx, func() error {
		entries, err := s.client.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			objects = append(objects, ObjectInfo{
				Key:          path.Join(strings.TrimLeft(prefix, "/"), entry.Name()),
				Size:         entry.Size(),
				LastModified: entry.ModTime(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	if objects == nil {
		objects = []ObjectInfo{}
	}
	return objects, nil
}

// Probe 读取根目录验证连通性和凭证
func (s *webdavStorage) Probe(ctx context.Context) error {
	err := runWithContext(ctx, func() error {
		_, err := s.client.ReadDir("/")
		return err
	})
	if err != nil {
		return &ProbeError{Err: err}
	}
	return nil
}

// ObjectURL 返回对象公开访问 URL
func (s *webdavStorage) ObjectURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cfg.CDNDomain, key)
	}
	return s.baseURL + "/" + key
}
