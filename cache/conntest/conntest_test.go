package conntest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidovo/imgtoss-sub000/config"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Provider:        config.ProviderAliyunOSS,
		Endpoint:        "oss-cn-hangzhou.aliyuncs.com",
		Region:          "cn-hangzhou",
		Bucket:          "test-bucket",
		AccessKeyID:     "ak-id",
		AccessKeySecret: "ak-secret",
		CDNDomain:       "cdn.example.com",
		PathTemplate:    "img/{filename}",
	}
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "probe_cache.json"))
}

func int64Ptr(v int64) *int64 { return &v }

// TestRecordThenLookup TTL 内写后读返回同一结果
func TestRecordThenLookup(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig()

	outcome := Outcome{Success: true, LatencyMS: int64Ptr(42)}
	c.Record(cfg, outcome)

	got, ok := c.Lookup(cfg)
	require.True(t, ok)
	assert.Equal(t, outcome, got)
}

// TestLookup_Expired 过期条目读不到且被顺手清除
func TestLookup_Expired(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig()

	c.Record(cfg, Outcome{Success: true})

	// 把时钟拨到 TTL 之后
	c.now = func() time.Time { return time.Now().Add(TTL + time.Second) }

	_, ok := c.Lookup(cfg)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

// TestKey_NetworkFieldsChangeKey 六个网络相关字段任一变化都改变缓存键
func TestKey_NetworkFieldsChangeKey(t *testing.T) {
	base := Key(testConfig())

	mutations := map[string]func(*config.StorageConfig){
		"provider": func(c *config.StorageConfig) { c.Provider = config.ProviderAWSS3 },
		"endpoint": func(c *config.StorageConfig) { c.Endpoint = "other.example.com" },
		"ak_id":    func(c *config.StorageConfig) { c.AccessKeyID = "other-id" },
		"secret":   func(c *config.StorageConfig) { c.AccessKeySecret = "other-secret" },
		"bucket":   func(c *config.StorageConfig) { c.Bucket = "other-bucket" },
		"region":   func(c *config.StorageConfig) { c.Region = "cn-beijing" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			assert.NotEqual(t, base, Key(cfg))
		})
	}
}

// TestKey_BusinessFieldsDoNotChangeKey 业务字段不参与缓存键
func TestKey_BusinessFieldsDoNotChangeKey(t *testing.T) {
	base := Key(testConfig())

	cfg := testConfig()
	cfg.PathTemplate = "other/{filename}"
	cfg.CDNDomain = "other-cdn.example.com"
	cfg.CompressEnabled = true
	cfg.CompressQuality = 80

	assert.Equal(t, base, Key(cfg))
}

// TestRecord_Overwrites 重测覆盖旧条目
func TestRecord_Overwrites(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig()

	c.Record(cfg, Outcome{Success: false, Error: "timeout"})
	c.Record(cfg, Outcome{Success: true, LatencyMS: int64Ptr(10)})

	got, ok := c.Lookup(cfg)
	require.True(t, ok)
	assert.True(t, got.Success)
	assert.Empty(t, got.Error)
	assert.Equal(t, 1, c.Len())
}

// TestRecord_EvictsExpiredSiblings 写入时清扫其他过期条目
func TestRecord_EvictsExpiredSiblings(t *testing.T) {
	c := newTestCache(t)

	old := testConfig()
	c.Record(old, Outcome{Success: true})

	c.now = func() time.Time { return time.Now().Add(TTL + time.Second) }

	fresh := testConfig()
	fresh.Bucket = "other-bucket"
	c.Record(fresh, Outcome{Success: true})

	assert.Equal(t, 1, c.Len())
	_, ok := c.Lookup(fresh)
	assert.True(t, ok)
}

// TestInvalidate 显式失效
func TestInvalidate(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig()

	c.Record(cfg, Outcome{Success: true})
	c.Invalidate(cfg)

	_, ok := c.Lookup(cfg)
	assert.False(t, ok)
}

// TestInvalidateAll 清空整表
func TestInvalidateAll(t *testing.T) {
	c := newTestCache(t)

	cfg1 := testConfig()
	cfg2 := testConfig()
	cfg2.Bucket = "other-bucket"
	c.Record(cfg1, Outcome{Success: true})
	c.Record(cfg2, Outcome{Success: false, Error: "dns"})

	c.InvalidateAll()
	assert.Equal(t, 0, c.Len())
}

// TestPersistence 重启后镜像文件内的结果仍然可用
func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_cache.json")
	cfg := testConfig()

	c1 := New(path)
	c1.Record(cfg, Outcome{Success: true, LatencyMS: int64Ptr(55)})

	c2 := New(path)
	got, ok := c2.Lookup(cfg)
	require.True(t, ok)
	assert.True(t, got.Success)
	require.NotNil(t, got.LatencyMS)
	assert.Equal(t, int64(55), *got.LatencyMS)
}

// TestPersistence_FileFormat 磁盘镜像为 十六进制键 -> 条目 的 JSON 对象
func TestPersistence_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_cache.json")
	cfg := testConfig()

	c := New(path)
	c.Record(cfg, Outcome{Success: true})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]Entry
	require.NoError(t, json.Unmarshal(data, &raw))

	key := Key(cfg)
	entry, ok := raw[key]
	require.True(t, ok)
	assert.Equal(t, key, entry.ConfigHash)
	assert.Len(t, key, 64)
}

// TestCorruptFile_TreatedAsEmpty 读不懂的镜像文件按空表处理而非报错
func TestCorruptFile_TreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not-json"), 0600))

	c := New(path)
	assert.Equal(t, 0, c.Len())

	// 仍然可以正常写入
	c.Record(testConfig(), Outcome{Success: true})
	assert.Equal(t, 1, c.Len())
}
