package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"golang.org/x/sync/errgroup"
)

type AdminProductUsecase struct {
	gw  repo.AdminCatalogGateway
	log *slog.Logger
}

func NewAdminProductUsecase(gw repo.AdminCatalogGateway, log *slog.Logger) *AdminProductUsecase {
	return &AdminProductUsecase{gw: gw, log: log}
}

// AdminProducts は商品一覧 + フォーム用のカテゴリ
type AdminProducts struct {
	Products   []model.Product  `json:"products"`
	Categories []model.Category `json:"categories"`
}

func (u *AdminProductUsecase) List(ctx context.Context, id Identity) (AdminProducts, error) {
	if _, err := requireAdmin(id); err != nil {
		return AdminProducts{}, err
	}
	return u.load(ctx)
}

func (u *AdminProductUsecase) Create(ctx context.Context, id Identity, screen *AdminScreen, payload model.ProductPayload) (AdminProducts, error) {
	var out AdminProducts
	err := screen.mutate("product", 0, func() (string, error) {
		token, err := requireAdmin(id)
		if err != nil {
			return "", err
		}
		if err := validator.Product(payload); err != nil {
			return "", err
		}
		created, err := u.gw.CreateProduct(ctx, token, payload)
		if err != nil {
			return "", err
		}
		u.log.Info("product created", "productId", created.ID)
		if out, err = u.load(ctx); err != nil {
			return "", err
		}
		return "Product created.", nil
	})
	return out, err
}

func (u *AdminProductUsecase) Update(ctx context.Context, id Identity, screen *AdminScreen, productID int64, payload model.ProductPayload) (AdminProducts, error) {
	var out AdminProducts
	err := screen.mutate("product", productID, func() (string, error) {
		token, err := requireAdmin(id)
		if err != nil {
			return "", err
		}
		if err := validator.Product(payload); err != nil {
			return "", err
		}
		if _, err := u.gw.UpdateProduct(ctx, token, productID, payload); err != nil {
			return "", err
		}
		if out, err = u.load(ctx); err != nil {
			return "", err
		}
		return "Product updated.", nil
	})
	return out, err
}

func (u *AdminProductUsecase) Delete(ctx context.Context, id Identity, screen *AdminScreen, productID int64, c Confirmer) (AdminProducts, error) {
	var out AdminProducts
	err := screen.mutate("product", productID, func() (string, error) {
		token, err := requireAdmin(id)
		if err != nil {
			return "", err
		}
		if err := confirm(c, fmt.Sprintf("Delete product #%d?", productID)); err != nil {
			return "", err
		}
		if err := u.gw.DeleteProduct(ctx, token, productID); err != nil {
			return "", err
		}
		u.log.Info("product deleted", "productId", productID)
		if out, err = u.load(ctx); err != nil {
			return "", err
		}
		return "Product deleted.", nil
	})
	return out, err
}

func (u *AdminProductUsecase) load(ctx context.Context) (AdminProducts, error) {
	var out AdminProducts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := u.gw.ListProducts(gctx)
		out.Products = ps
		return err
	})
	g.Go(func() error {
		cs, err := u.gw.ListCategories(gctx)
		out.Categories = cs
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminProducts{}, err
	}
	return out, nil
}
