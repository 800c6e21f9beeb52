package storage

import (
	"context"
	"time"
)

// UploadProgress 单个对象的上传进度。
// 起始时 Progress 为 0，完成时为 100；中间进度与提供商实现相关，可能缺失。
type UploadProgress struct {
	Key           string
	Progress      float64
	BytesUploaded int64
	TotalBytes    int64
	SpeedBPS      *float64
}

// ProgressFunc 进度回调，在上传调用的同一执行上下文中同步调用。
// 回调阻塞会拖慢上传循环，耗时工作应由回调方自行异步化。
type ProgressFunc func(UploadProgress)

// ObjectInfo 对象列表条目
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
}

// Provider 存储提供者接口 - 所有提供商实现统一的能力集合
type Provider interface {
	// Upload 上传对象并返回可访问 URL
	Upload(ctx context.Context, key string, data []byte, contentType string, progress ProgressFunc) (string, error)

	// Delete 删除对象
	Delete(ctx context.Context, key string) error

	// List 按前缀列出对象。响应体解析不在本层范围内，
	// 当前实现对 2xx 响应一律返回空集合。
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Probe 轻量连接探测，走与 Upload 相同的签名路径
	Probe(ctx context.Context) error

	// ObjectURL 返回对象的公开访问 URL，纯函数，不触网
	ObjectURL(key string) string

	// Name 返回提供商名称
	Name() string
}
