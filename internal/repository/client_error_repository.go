package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// クライアントエラー一覧の絞り込み条件
type ClientErrorFilter struct {
	Device      *string
	Component   *string
	CreatedFrom *time.Time
	Limit       int
	Offset      int
}

// 件数の上限と既定値
const (
	ClientErrorDefaultLimit = 50
	ClientErrorMaxLimit     = 200
)

// Limit の範囲外は既定値にする
func (f ClientErrorFilter) Normalize() ClientErrorFilter {
	if f.Limit <= 0 || f.Limit > ClientErrorMaxLimit {
		f.Limit = ClientErrorDefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// クライアントエラーの保存・一覧取得の約束（新しい順）
type ClientErrorRepository interface {
	Create(ctx context.Context, report *model.ClientErrorReport) error
	List(ctx context.Context, filter ClientErrorFilter) ([]model.ClientErrorReport, error)
}
