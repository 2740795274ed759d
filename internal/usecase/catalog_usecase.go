package usecase

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"golang.org/x/sync/errgroup"
)

// CatalogUsecase は商品/カテゴリの閲覧（トークン不要）
type CatalogUsecase struct {
	gw repo.CatalogGateway
}

func NewCatalogUsecase(gw repo.CatalogGateway) *CatalogUsecase {
	return &CatalogUsecase{gw: gw}
}

func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	return u.gw.ListProducts(ctx)
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	return u.gw.GetProduct(ctx, id)
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return u.gw.ListCategories(ctx)
}

type CategoryProducts struct {
	Category model.Category  `json:"category"`
	Products []model.Product `json:"products"`
}

// CategoryProducts はカテゴリと所属商品を並列に取る
func (u *CatalogUsecase) CategoryProducts(ctx context.Context, categoryID int64) (CategoryProducts, error) {
	var out CategoryProducts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := u.gw.GetCategory(gctx, categoryID)
		out.Category = c
		return err
	})
	g.Go(func() error {
		ps, err := u.gw.ListCategoryProducts(gctx, categoryID)
		out.Products = ps
		return err
	})
	if err := g.Wait(); err != nil {
		return CategoryProducts{}, err
	}
	return out, nil
}
