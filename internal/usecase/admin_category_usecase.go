package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"
)

// AdminCategoryUsecase はカテゴリの管理。
// 更新系は 入力チェック → API → 一覧を取り直す（画面側でマージしない）。
type AdminCategoryUsecase struct {
	gw  repo.AdminCatalogGateway
	log *slog.Logger
}

func NewAdminCategoryUsecase(gw repo.AdminCatalogGateway, log *slog.Logger) *AdminCategoryUsecase {
	return &AdminCategoryUsecase{gw: gw, log: log}
}

func (u *AdminCategoryUsecase) List(ctx context.Context, id Identity) ([]model.Category, error) {
	if _, err := requireAdmin(id); err != nil {
		return nil, err
	}
	return u.gw.ListCategories(ctx)
}

func (u *AdminCategoryUsecase) Create(ctx context.Context, id Identity, screen *AdminScreen, payload model.CategoryPayload) ([]model.Category, error) {
	var out []model.Category
	err := screen.mutate("category", 0, func() (string, error) {
		token, err := requireAdmin(id)
		if err != nil {
			return "", err
		}
		if err := validator.Category(payload); err != nil {
			return "", err
		}
		created, err := u.gw.CreateCategory(ctx, token, payload)
		if err != nil {
			return "", err
		}
		u.log.Info("category created", "categoryId", created.ID)
		if out, err = u.gw.ListCategories(ctx); err != nil {
			return "", err
		}
		return "Category created.", nil
	})
	return out, err
}

func (u *AdminCategoryUsecase) Update(ctx context.Context, id Identity, screen *AdminScreen, categoryID int64, payload model.CategoryPayload) ([]model.Category, error) {
	var out []model.Category
	err := screen.mutate("category", categoryID, func() (string, error) {
		token, err := requireAdmin(id)
		if err != nil {
			return "", err
		}
		if err := validator.Category(payload); err != nil {
			return "", err
		}
		if _, err := u.gw.UpdateCategory(ctx, token, categoryID, payload); err != nil {
			return "", err
		}
		if out, err = u.gw.ListCategories(ctx); err != nil {
			return "", err
		}
		return "Category updated.", nil
	})
	return out, err
}

// Delete は確認が取れたときだけ削除する
func (u *AdminCategoryUsecase) Delete(ctx context.Context, id Identity, screen *AdminScreen, categoryID int64, c Confirmer) ([]model.Category, error) {
	var out []model.Category
	err := screen.mutate("category", categoryID, func() (string, error) {
		token, err := requireAdmin(id)
		if err != nil {
			return "", err
		}
		if err := confirm(c, fmt.Sprintf("Delete category #%d?", categoryID)); err != nil {
			return "", err
		}
		if err := u.gw.DeleteCategory(ctx, token, categoryID); err != nil {
			return "", err
		}
		u.log.Info("category deleted", "categoryId", categoryID)
		if out, err = u.gw.ListCategories(ctx); err != nil {
			return "", err
		}
		return "Category deleted.", nil
	})
	return out, err
}
