package storage

import (
	"fmt"

	"github.com/voidovo/imgtoss-sub000/config"
)

// New 根据配置的提供商标识创建对应的存储提供者。
// 分发在此处做一次，之后调用方对所有提供商一视同仁。
func New(cfg config.StorageConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderAliyunOSS:
		return NewAliyunStorage(cfg), nil
	case config.ProviderTencentCOS:
		return NewTencentStorage(cfg), nil
	case config.ProviderAWSS3:
		return NewS3Storage(cfg), nil
	case config.ProviderMinio:
		return NewMinioStorage(cfg)
	case config.ProviderWebDAV:
		return NewWebDAVStorage(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}
