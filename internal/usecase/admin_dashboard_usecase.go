package usecase

import (
	"context"

	repo "storefront/internal/repository"

	"golang.org/x/sync/errgroup"
)

// AdminDashboardUsecase は管理トップの件数表示
type AdminDashboardUsecase struct {
	catalog repo.AdminCatalogGateway
	orders  repo.AdminOrderGateway
	users   repo.AdminUserGateway
}

func NewAdminDashboardUsecase(catalog repo.AdminCatalogGateway, orders repo.AdminOrderGateway, users repo.AdminUserGateway) *AdminDashboardUsecase {
	return &AdminDashboardUsecase{catalog: catalog, orders: orders, users: users}
}

type AdminDashboard struct {
	Products   int          `json:"products"`
	Categories int          `json:"categories"`
	Users      int          `json:"users"`
	Orders     OrderSummary `json:"orders"`
}

// Load は4つの一覧を並列に取って件数にする
func (u *AdminDashboardUsecase) Load(ctx context.Context, id Identity) (AdminDashboard, error) {
	token, err := requireAdmin(id)
	if err != nil {
		return AdminDashboard{}, err
	}

	var out AdminDashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := u.catalog.ListProducts(gctx)
		out.Products = len(ps)
		return err
	})
	g.Go(func() error {
		cs, err := u.catalog.ListCategories(gctx)
		out.Categories = len(cs)
		return err
	})
	g.Go(func() error {
		us, err := u.users.AdminListUsers(gctx, token)
		out.Users = len(us)
		return err
	})
	g.Go(func() error {
		list, err := u.orders.AdminListOrders(gctx, token)
		out.Orders = BuildAdminOrders(list).Summary
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminDashboard{}, err
	}
	return out, nil
}
