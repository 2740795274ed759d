package model

import "time"

// 端末ごとの永続セッション（ブラウザの localStorage 相当）
type StorageEntry struct {
	Namespace string    `gorm:"type:varchar(64);primaryKey" json:"namespace"`
	Key       string    `gorm:"type:varchar(128);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
