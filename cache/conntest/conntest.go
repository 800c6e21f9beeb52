// Package conntest 连接测试结果缓存。
// 进程级共享状态，互斥锁保护，并镜像到磁盘 JSON 文件，
// 重启后 TTL 窗口内的配置不必重新探测。
package conntest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/voidovo/imgtoss-sub000/config"
)

// TTL 缓存条目有效期
const TTL = 300 * time.Second

// Outcome 一次连接测试的结构化结果。
// LatencyMS 在真正发起过网络探测时记录（无论成败），否则为 nil。
type Outcome struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	LatencyMS *int64 `json:"latency_ms,omitempty"`
}

// Entry 缓存条目
type Entry struct {
	ConfigHash string    `json:"config_hash"`
	Outcome    Outcome   `json:"outcome"`
	Timestamp  time.Time `json:"timestamp"`
}

// Cache 连接测试结果缓存。锁只覆盖 map 操作和过期清扫，
// 从不跨网络调用持有。
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	path    string
	now     func() time.Time
}

// Key 由影响网络行为的六个字段按固定顺序计算 SHA-256。
// 业务字段（路径模板、CDN 域名、压缩设置）不参与，
// 它们不影响可达性，纳入只会无谓地打散缓存。
func Key(cfg config.StorageConfig) string {
	fields := strings.Join([]string{
		string(cfg.Provider),
		cfg.Endpoint,
		cfg.AccessKeyID,
		cfg.AccessKeySecret,
		cfg.Bucket,
		cfg.Region,
	}, "\x1f")
	sum := sha256.Sum256([]byte(fields))
	return hex.EncodeToString(sum[:])
}

// New 创建缓存并从磁盘镜像加载。文件缺失或无法解析按空表处理。
func New(path string) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		path:    path,
		now:     time.Now,
	}
	c.load()
	return c
}

func (c *Cache) load() {
	if c.path == "" {
		return
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// 格式未做版本化，读不懂的文件当空表，不能让它阻塞启动
		log.Printf("Warning: unreadable probe cache file %s, starting empty: %v", c.path, err)
		return
	}
	c.entries = entries
}

// persist 调用方必须持有 c.mu
func (c *Cache) persist() {
	if c.path == "" {
		return
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		log.Printf("Warning: failed to marshal probe cache: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		log.Printf("Warning: failed to create probe cache directory: %v", err)
		return
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		log.Printf("Warning: failed to write probe cache file: %v", err)
	}
}

// Lookup 返回未过期的缓存结果。命中过期条目不会使其复活。
func (c *Cache) Lookup(cfg config.StorageConfig) (Outcome, bool) {
	key := Key(cfg)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Outcome{}, false
	}
	if c.now().Sub(entry.Timestamp) > TTL {
		delete(c.entries, key)
		return Outcome{}, false
	}
	return entry.Outcome, true
}

// Record 覆盖写入该配置的测试结果，随后整表落盘，
// 并顺手清扫其他已过期的条目。
func (c *Cache) Record(cfg config.StorageConfig, outcome Outcome) {
	key := Key(cfg)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		ConfigHash: key,
		Outcome:    outcome,
		Timestamp:  c.now(),
	}

	for k, entry := range c.entries {
		if k != key && c.now().Sub(entry.Timestamp) > TTL {
			delete(c.entries, k)
		}
	}

	c.persist()
}

// Invalidate 显式移除某配置的缓存结果，用于用户要求重新测试的场景
func (c *Cache) Invalidate(cfg config.StorageConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, Key(cfg))
	c.persist()
}

// InvalidateAll 清空整张表
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	c.persist()
}

// Len 当前条目数（含可能已过期但尚未清扫的条目）
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
