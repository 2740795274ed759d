package usecase

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"
)

// PaymentMethodUsecase はプロフィール画面のカード管理
type PaymentMethodUsecase struct {
	gw    repo.PaymentMethodGateway
	clock Clock
}

func NewPaymentMethodUsecase(gw repo.PaymentMethodGateway, clock Clock) *PaymentMethodUsecase {
	if clock == nil {
		clock = SystemClock
	}
	return &PaymentMethodUsecase{gw: gw, clock: clock}
}

// PaymentMethods は一覧 + クライアント側で決めた既定の支払い方法
type PaymentMethods struct {
	Methods   []model.PaymentMethod `json:"methods"`
	DefaultID string                `json:"defaultId,omitempty"`
}

func (u *PaymentMethodUsecase) List(ctx context.Context, id Identity) (PaymentMethods, error) {
	token, cid, err := requireCustomer(ctx, id)
	if err != nil {
		return PaymentMethods{}, err
	}
	return u.list(ctx, token, cid)
}

func (u *PaymentMethodUsecase) Create(ctx context.Context, id Identity, payload model.PaymentMethodPayload) (PaymentMethods, error) {
	token, cid, err := requireCustomer(ctx, id)
	if err != nil {
		return PaymentMethods{}, err
	}
	if err := validator.PaymentMethod(payload, u.clock.Now()); err != nil {
		return PaymentMethods{}, err
	}
	if _, err := u.gw.CreatePaymentMethod(ctx, token, cid, payload); err != nil {
		return PaymentMethods{}, err
	}
	return u.list(ctx, token, cid)
}

func (u *PaymentMethodUsecase) SetDefault(ctx context.Context, id Identity, methodID string) (PaymentMethods, error) {
	token, cid, err := requireCustomer(ctx, id)
	if err != nil {
		return PaymentMethods{}, err
	}
	if _, err := u.gw.SetDefaultPaymentMethod(ctx, token, cid, methodID); err != nil {
		return PaymentMethods{}, err
	}
	return u.list(ctx, token, cid)
}

// SetEnabled は有効/無効の切り替え（無効化が論理削除）
func (u *PaymentMethodUsecase) SetEnabled(ctx context.Context, id Identity, methodID string, enabled bool) (PaymentMethods, error) {
	token, cid, err := requireCustomer(ctx, id)
	if err != nil {
		return PaymentMethods{}, err
	}
	if _, err := u.gw.SetPaymentMethodEnabled(ctx, token, cid, methodID, enabled); err != nil {
		return PaymentMethods{}, err
	}
	return u.list(ctx, token, cid)
}

func (u *PaymentMethodUsecase) list(ctx context.Context, token string, cid int64) (PaymentMethods, error) {
	methods, err := u.gw.ListPaymentMethods(ctx, token, cid)
	if err != nil {
		return PaymentMethods{}, err
	}
	out := PaymentMethods{Methods: methods}
	if def, ok := model.DefaultPaymentMethod(methods); ok {
		out.DefaultID = def.ID
	}
	return out, nil
}
