package usecase

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"
)

// ProfileUsecase は顧客プロフィールの取得/更新
type ProfileUsecase struct {
	gw repo.CustomerGateway
}

func NewProfileUsecase(gw repo.CustomerGateway) *ProfileUsecase {
	return &ProfileUsecase{gw: gw}
}

func (u *ProfileUsecase) Get(ctx context.Context, id Identity) (model.Customer, error) {
	token, cid, err := requireCustomer(ctx, id)
	if err != nil {
		return model.Customer{}, err
	}
	return u.gw.GetCustomer(ctx, token, cid)
}

func (u *ProfileUsecase) Update(ctx context.Context, id Identity, payload model.CustomerUpdatePayload) (model.Customer, error) {
	token, cid, err := requireCustomer(ctx, id)
	if err != nil {
		return model.Customer{}, err
	}
	if err := validator.CustomerUpdate(payload); err != nil {
		return model.Customer{}, err
	}
	return u.gw.UpdateCustomer(ctx, token, cid, payload)
}
