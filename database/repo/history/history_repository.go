package history

import (
	"context"

	"gorm.io/gorm"

	"github.com/voidovo/imgtoss-sub000/database/models"
)

// Repository 上传历史仓库接口
type Repository interface {
	Create(ctx context.Context, record *models.UploadRecord) error
	List(ctx context.Context, offset, limit int) ([]models.UploadRecord, int64, error)
	FindByKey(ctx context.Context, key string) ([]models.UploadRecord, error)
	DeleteOlderThan(ctx context.Context, keep int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository 创建上传历史仓库
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create 写入一条上传记录
func (r *repository) Create(ctx context.Context, record *models.UploadRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// List 按时间倒序分页查询，返回记录和总数
func (r *repository) List(ctx context.Context, offset, limit int) ([]models.UploadRecord, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.UploadRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.UploadRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindByKey 查询同一对象键的全部记录
func (r *repository) FindByKey(ctx context.Context, key string) ([]models.UploadRecord, error) {
	var records []models.UploadRecord
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// DeleteOlderThan 仅保留最近 keep 条记录，其余删除
func (r *repository) DeleteOlderThan(ctx context.Context, keep int) error {
	sub := r.db.WithContext(ctx).
		Model(&models.UploadRecord{}).
		Select("id").
		Order("created_at DESC").
		Limit(keep)
	return r.db.WithContext(ctx).
		Where("id NOT IN (?)", sub).
		Delete(&models.UploadRecord{}).Error
}
