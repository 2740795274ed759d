package usecase

import (
	"context"

	"storefront/internal/domain/model"
)

// Identity はトークンと顧客IDの提供元（session.Store が実装）
type Identity interface {
	Token() string
	User() *model.AuthUser
	IsAdmin() bool
	CustomerID(ctx context.Context) (int64, bool)
}

func requireToken(id Identity) (string, error) {
	token := id.Token()
	if token == "" {
		return "", ErrSignInRequired
	}
	return token, nil
}

// トークン + 顧客ID が両方そろっていること
func requireCustomer(ctx context.Context, id Identity) (string, int64, error) {
	token, err := requireToken(id)
	if err != nil {
		return "", 0, err
	}
	cid, ok := id.CustomerID(ctx)
	if !ok {
		return "", 0, ErrCustomerRequired
	}
	return token, cid, nil
}

// 管理者ロール かつ 管理者ビュー
func requireAdmin(id Identity) (string, error) {
	token, err := requireToken(id)
	if err != nil {
		return "", err
	}
	if !id.IsAdmin() {
		return "", ErrForbidden
	}
	return token, nil
}
