package config

import (
	"fmt"
	"strings"
)

// Provider 存储提供商标识，封闭枚举
type Provider string

const (
	ProviderAliyunOSS  Provider = "aliyun_oss"
	ProviderTencentCOS Provider = "tencent_cos"
	ProviderAWSS3      Provider = "aws_s3"
	ProviderMinio      Provider = "minio"
	ProviderWebDAV     Provider = "webdav"
)

// StorageConfig 单次操作使用的存储配置，按值传递，核心层不修改
type StorageConfig struct {
	Provider        Provider `mapstructure:"provider" json:"provider"`
	Endpoint        string   `mapstructure:"endpoint" json:"endpoint"`
	Region          string   `mapstructure:"region" json:"region"`
	Bucket          string   `mapstructure:"bucket" json:"bucket"`
	AccessKeyID     string   `mapstructure:"access_key_id" json:"access_key_id"`
	AccessKeySecret string   `mapstructure:"access_key_secret" json:"access_key_secret"`

	// 业务字段，不影响网络可达性
	CDNDomain       string `mapstructure:"cdn_domain" json:"cdn_domain,omitempty"`
	PathTemplate    string `mapstructure:"path_template" json:"path_template,omitempty"`
	CompressEnabled bool   `mapstructure:"compress_enabled" json:"compress_enabled,omitempty"`
	CompressQuality int    `mapstructure:"compress_quality" json:"compress_quality,omitempty"`
}

// Validate 廉价的字段级校验，不触网。
// 校验失败的配置不会进入连接测试流程。
func (c StorageConfig) Validate() error {
	switch c.Provider {
	case ProviderAliyunOSS, ProviderTencentCOS, ProviderAWSS3:
		if c.Bucket == "" {
			return fmt.Errorf("bucket is required for provider %s", c.Provider)
		}
		if c.Region == "" && c.Endpoint == "" {
			return fmt.Errorf("either region or endpoint is required for provider %s", c.Provider)
		}
		if c.AccessKeyID == "" || c.AccessKeySecret == "" {
			return fmt.Errorf("access key id and secret are required for provider %s", c.Provider)
		}
	case ProviderMinio:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint is required for provider %s", c.Provider)
		}
		if c.Bucket == "" {
			return fmt.Errorf("bucket is required for provider %s", c.Provider)
		}
		if c.AccessKeyID == "" || c.AccessKeySecret == "" {
			return fmt.Errorf("access key id and secret are required for provider %s", c.Provider)
		}
	case ProviderWebDAV:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint is required for provider %s", c.Provider)
		}
		if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
			return fmt.Errorf("webdav endpoint must be an http(s) URL")
		}
	case "":
		return fmt.Errorf("provider is required")
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	return nil
}
