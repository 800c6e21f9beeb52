package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validOSSConfig() StorageConfig {
	return StorageConfig{
		Provider:        ProviderAliyunOSS,
		Region:          "cn-hangzhou",
		Bucket:          "my-bucket",
		AccessKeyID:     "AKID",
		AccessKeySecret: "secret",
	}
}

func TestStorageConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StorageConfig)
		wantErr bool
	}{
		{"valid oss", func(c *StorageConfig) {}, false},
		{"missing provider", func(c *StorageConfig) { c.Provider = "" }, true},
		{"unknown provider", func(c *StorageConfig) { c.Provider = "ftp" }, true},
		{"missing bucket", func(c *StorageConfig) { c.Bucket = "" }, true},
		{"missing region and endpoint", func(c *StorageConfig) { c.Region = ""; c.Endpoint = "" }, true},
		{"endpoint substitutes region", func(c *StorageConfig) { c.Region = ""; c.Endpoint = "oss-cn-hangzhou.aliyuncs.com" }, false},
		{"missing secret", func(c *StorageConfig) { c.AccessKeySecret = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validOSSConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStorageConfigValidate_WebDAV(t *testing.T) {
	cfg := StorageConfig{
		Provider: ProviderWebDAV,
		Endpoint: "https://dav.example.com/remote.php/dav",
	}
	assert.NoError(t, cfg.Validate())

	cfg.Endpoint = "dav.example.com"
	assert.Error(t, cfg.Validate())

	cfg.Endpoint = ""
	assert.Error(t, cfg.Validate())
}

func TestStorageConfigValidate_Minio(t *testing.T) {
	cfg := StorageConfig{
		Provider:        ProviderMinio,
		Endpoint:        "minio.local:9000",
		Bucket:          "media",
		AccessKeyID:     "minioadmin",
		AccessKeySecret: "minioadmin",
	}
	assert.NoError(t, cfg.Validate())

	cfg.Endpoint = ""
	assert.Error(t, cfg.Validate())
}
