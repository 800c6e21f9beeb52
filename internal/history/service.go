// Package history 上传历史记账。
// 核心上传层不保留任何进度或结果历史，这里在编排层之上补一份。
package history

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/voidovo/imgtoss-sub000/cache"
	"github.com/voidovo/imgtoss-sub000/config"
	"github.com/voidovo/imgtoss-sub000/database/models"
	historyRepo "github.com/voidovo/imgtoss-sub000/database/repo/history"
	"github.com/voidovo/imgtoss-sub000/internal/uploader"
)

const pageCacheTTL = time.Minute

// Page 分页查询结果
type Page struct {
	Records []models.UploadRecord `json:"records"`
	Total   int64                 `json:"total"`
}

// Service 历史记录服务。分页查询经由通用缓存层，写入时失效。
type Service struct {
	repo  historyRepo.Repository
	cache cache.Provider
}

// NewService 创建历史记录服务。cacheProvider 可为 nil，此时查询直达数据库。
func NewService(repo historyRepo.Repository, cacheProvider cache.Provider) *Service {
	return &Service{
		repo:  repo,
		cache: cacheProvider,
	}
}

// RecordResults 把一批上传结果写入历史
func (s *Service) RecordResults(ctx context.Context, cfg config.StorageConfig, items []uploader.Item, results []uploader.UploadResult) {
	sizes := make(map[string]int64, len(items))
	for _, item := range items {
		sizes[item.Key] = int64(len(item.Data))
	}

	for _, result := range results {
		record := &models.UploadRecord{
			ID:        uuid.NewString(),
			Key:       result.Key,
			URL:       result.URL,
			Provider:  string(cfg.Provider),
			Bucket:    cfg.Bucket,
			FileSize:  sizes[result.Key],
			Success:   result.Success,
			Error:     result.Error,
			CreatedAt: time.Now(),
		}
		if err := s.repo.Create(ctx, record); err != nil {
			log.Printf("Warning: failed to record upload history for %q: %v", result.Key, err)
		}
	}

	s.invalidatePages(ctx)
}

// List 分页查询上传历史，页级缓存一分钟
func (s *Service) List(ctx context.Context, offset, limit int) (Page, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	key := cache.HistoryPage.Build(fmt.Sprint(offset), fmt.Sprint(limit))
	if s.cache != nil {
		var page Page
		if err := s.cache.Get(ctx, key, &page); err == nil {
			return page, nil
		}
	}

	records, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return Page{}, fmt.Errorf("failed to list upload history: %w", err)
	}

	page := Page{Records: records, Total: total}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, page, pageCacheTTL); err != nil {
			log.Printf("Warning: failed to cache history page: %v", err)
		}
	}
	return page, nil
}

// FindByKey 查询某对象键的全部上传记录
func (s *Service) FindByKey(ctx context.Context, key string) ([]models.UploadRecord, error) {
	return s.repo.FindByKey(ctx, key)
}

// Prune 仅保留最近 keep 条记录
func (s *Service) Prune(ctx context.Context, keep int) error {
	if err := s.repo.DeleteOlderThan(ctx, keep); err != nil {
		return err
	}
	s.invalidatePages(ctx)
	return nil
}

// invalidatePages 写入后粗粒度失效首页缓存。
// 页键带 offset/limit，逐一删除不现实，只清最常访问的首页。
func (s *Service) invalidatePages(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, limit := range []int{10, 20, 50} {
		_ = s.cache.Delete(ctx, cache.HistoryPage.Build("0", fmt.Sprint(limit)))
	}
}
