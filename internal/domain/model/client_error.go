package model

import "time"

// ClientErrorReport はブラウザで起きたエラーの報告
type ClientErrorReport struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Device    string    `gorm:"type:varchar(64);not null;index" json:"device"`
	UserID    *int64    `gorm:"index" json:"userId,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Stack     string    `gorm:"type:text" json:"stack,omitempty"`
	URL       string    `gorm:"type:varchar(2048)" json:"url,omitempty"`
	Component string    `gorm:"type:varchar(128);index" json:"component,omitempty"`
	UserAgent string    `gorm:"type:varchar(512)" json:"userAgent,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
}

func (ClientErrorReport) TableName() string {
	return "client_error_reports"
}
