package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/voidovo/imgtoss-sub000/config"
)

// minioStorage 自建 S3 兼容端点适配器，签名交给 SDK，不走手写签名路径
type minioStorage struct {
	cfg    config.StorageConfig
	client *minio.Client
	useSSL bool
	host   string
}

// NewMinioStorage 创建 MinIO / S3 兼容存储提供者
func NewMinioStorage(cfg config.StorageConfig) (Provider, error) {
	endpoint := cfg.Endpoint
	useSSL := true
	if strings.HasPrefix(endpoint, "http://") {
		endpoint = strings.TrimPrefix(endpoint, "http://")
		useSSL = false
	} else {
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}
	endpoint = strings.TrimRight(endpoint, "/")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	return &minioStorage{
		cfg:    cfg,
		client: client,
		useSSL: useSSL,
		host:   endpoint,
	}, nil
}

func (s *minioStorage) Name() string {
	return string(config.ProviderMinio)
}

// Upload 上传对象，进度在 0% 和 100% 各上报一次
func (s *minioStorage) Upload(ctx context.Context, key string, data []byte, contentType string, progress ProgressFunc) (string, error) {
	key = strings.TrimLeft(key, "/")
	total := int64(len(data))

	emitProgress(progress, key, 0, 0, total)

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), total, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}

	emitProgress(progress, key, 100, total, total)
	return s.ObjectURL(key), nil
}

// Delete 删除对象
func (s *minioStorage) Delete(ctx context.Context, key string) error {
	key = strings.TrimLeft(key, "/")
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return &DeleteError{Key: key, Err: err}
	}
	return nil
}

// List 按前缀列出对象。SDK 自带响应解析，这里返回真实列表。
func (s *minioStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objects := []ObjectInfo{}
	for object := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list request failed: %w", object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ETag:         object.ETag,
		})
	}
	return objects, nil
}

// Probe 检查 bucket 是否存在
func (s *minioStorage) Probe(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return &ProbeError{Err: err}
	}
	if !exists {
		return &ProbeError{Err: fmt.Errorf("bucket %q not found", s.cfg.Bucket)}
	}
	return nil
}

// ObjectURL 返回对象公开访问 URL，MinIO 使用路径风格
func (s *minioStorage) ObjectURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cfg.CDNDomain, key)
	}
	scheme := "https"
	if !s.useSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.host, s.cfg.Bucket, key)
}
