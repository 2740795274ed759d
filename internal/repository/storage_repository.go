package repository

import (
	"context"
	"errors"
)

// 見つかりませんを統一
var ErrNotFound = errors.New("not found")

// StorageRepository は端末(namespace)ごとのキーバリュー保存。
// セッションストアの永続化先で、ブラウザの localStorage と同じ使い方をする。
type StorageRepository interface {
	// 無ければ ErrNotFound
	Get(ctx context.Context, namespace string, key string) (string, error)
	Set(ctx context.Context, namespace string, key string, value string) error
	// 存在しないキーはエラーにしない
	Delete(ctx context.Context, namespace string, keys ...string) error
}
