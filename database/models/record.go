package models

import "time"

// UploadRecord 一次对象上传的历史记录，成功与失败都会入库
type UploadRecord struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Key       string    `gorm:"index;not null" json:"key"`
	URL       string    `json:"uploaded_url,omitempty"`
	Provider  string    `gorm:"index;not null" json:"provider"`
	Bucket    string    `json:"bucket"`
	FileSize  int64     `json:"file_size"`
	Success   bool      `gorm:"not null" json:"success"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
