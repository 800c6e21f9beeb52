// Package uploader 上传编排层。
// 构造时按配置的提供商标识选定一个存储适配器，之后的上传、批量上传、
// 连接测试都经由该适配器进行。
package uploader

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/voidovo/imgtoss-sub000/cache/conntest"
	"github.com/voidovo/imgtoss-sub000/config"
	"github.com/voidovo/imgtoss-sub000/storage"
	"github.com/voidovo/imgtoss-sub000/utils/mime"
)

// Item 批量上传条目
type Item struct {
	Key  string
	Data []byte
}

// UploadResult 单个对象的上传结果。
// 成功时 URL 非空且 Error 为空，失败时相反，二者不会同时出现。
type UploadResult struct {
	Key     string `json:"key"`
	Success bool   `json:"success"`
	URL     string `json:"uploaded_url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Service 上传编排服务，持有且仅持有一个存储适配器
type Service struct {
	cfg        config.StorageConfig
	provider   storage.Provider
	probeCache *conntest.Cache
	group      singleflight.Group
}

// New 创建上传服务。提供商标识没有对应实现时立即失败。
// probeCache 可为 nil，此时连接测试不做缓存。
func New(cfg config.StorageConfig, probeCache *conntest.Cache) (*Service, error) {
	provider, err := storage.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:        cfg,
		provider:   provider,
		probeCache: probeCache,
	}, nil
}

// Provider 返回选定的存储适配器
func (s *Service) Provider() storage.Provider {
	return s.provider
}

// Config 返回构造时的存储配置
func (s *Service) Config() config.StorageConfig {
	return s.cfg
}

// UploadImage 从首字节嗅探图片类型后上传单个对象
func (s *Service) UploadImage(ctx context.Context, key string, data []byte, progress storage.ProgressFunc) (string, error) {
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}
	contentType := mime.DetectImageType(data)
	return s.provider.Upload(ctx, key, data, contentType, progress)
}

// UploadMany 顺序批量上传，逐条隔离失败。
// 单条失败只产生一条失败结果，不中断后续条目，整体永不报错。
// 顺序执行保证进度回调有确定的次序：第 N 个对象完成后才开始第 N+1 个。
func (s *Service) UploadMany(ctx context.Context, items []Item, progress storage.ProgressFunc) []UploadResult {
	results := make([]UploadResult, 0, len(items))
	succeeded := 0

	for _, item := range items {
		uploadedURL, err := s.UploadImage(ctx, item.Key, item.Data, progress)
		if err != nil {
			results = append(results, UploadResult{Key: item.Key, Success: false, Error: err.Error()})
			continue
		}
		succeeded++
		results = append(results, UploadResult{Key: item.Key, Success: true, URL: uploadedURL})
	}

	log.Printf("Batch upload finished: %d/%d succeeded", succeeded, len(items))
	return results
}

// TestConnection 对探测计时并把任何失败折叠为结构化结果。
// 调用方不需要为此操作准备错误处理路径。
// 延迟在真正发起探测后记录，无论成败。
func (s *Service) TestConnection(ctx context.Context) conntest.Outcome {
	start := time.Now()
	err := s.provider.Probe(ctx)
	latency := time.Since(start).Milliseconds()

	outcome := conntest.Outcome{Success: err == nil, LatencyMS: &latency}
	if err != nil {
		outcome.Error = err.Error()
	}
	return outcome
}

// ValidateAndTest 先做廉价的字段校验，通过后才查缓存，
// 缓存未命中才真正探测并回写。字段校验失败的配置绝不触网。
// 同一配置的并发探测通过 singleflight 合并为一次。
func (s *Service) ValidateAndTest(ctx context.Context, force bool) conntest.Outcome {
	if err := s.cfg.Validate(); err != nil {
		return conntest.Outcome{Success: false, Error: err.Error()}
	}

	if s.probeCache != nil {
		if force {
			s.probeCache.Invalidate(s.cfg)
		} else if outcome, ok := s.probeCache.Lookup(s.cfg); ok {
			return outcome
		}
	}

	v, _, _ := s.group.Do(conntest.Key(s.cfg), func() (interface{}, error) {
		outcome := s.TestConnection(ctx)
		if s.probeCache != nil {
			s.probeCache.Record(s.cfg, outcome)
		}
		return outcome, nil
	})
	return v.(conntest.Outcome)
}
