package usecase

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/tracking"

	"golang.org/x/sync/errgroup"
)

type OrderUsecase struct {
	gw repo.OrderGateway
}

func NewOrderUsecase(gw repo.OrderGateway) *OrderUsecase {
	return &OrderUsecase{gw: gw}
}

// OrderDetail は注文詳細画面の内容
type OrderDetail struct {
	Order       model.Order                `json:"order"`
	Payments    []model.PaymentTransaction `json:"payments"`
	Tracking    model.OrderTracking        `json:"tracking"`
	StatusLabel string                     `json:"statusLabel"`
	Stages      []tracking.Stage           `json:"stages"`
	Cancelled   bool                       `json:"cancelled"`
}

// List は自分の注文一覧
func (u *OrderUsecase) List(ctx context.Context, id Identity) ([]model.Order, error) {
	token, cid, err := requireCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.gw.ListCustomerOrders(ctx, token, cid)
}

// Detail は注文 / 支払い履歴 / 追跡 を並列に取って追跡表示を組み立てる
func (u *OrderUsecase) Detail(ctx context.Context, id Identity, orderID int64) (OrderDetail, error) {
	token, err := requireToken(id)
	if err != nil {
		return OrderDetail{}, err
	}

	var out OrderDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := u.gw.GetOrder(gctx, token, orderID)
		out.Order = o
		return err
	})
	g.Go(func() error {
		ps, err := u.gw.ListOrderPayments(gctx, token, orderID)
		out.Payments = ps
		return err
	})
	g.Go(func() error {
		t, err := u.gw.GetOrderTracking(gctx, token, orderID)
		out.Tracking = t
		return err
	})
	if err := g.Wait(); err != nil {
		return OrderDetail{}, err
	}

	status := out.Order.Status
	if out.Tracking.Status != "" {
		status = out.Tracking.Status
	}
	approved := out.Tracking.PaymentApproved || anyApproved(out.Payments)

	out.StatusLabel = tracking.Label(status, approved)
	out.Stages = tracking.Stages(status)
	out.Cancelled = tracking.IsCancelled(status)
	return out, nil
}

func anyApproved(ps []model.PaymentTransaction) bool {
	for _, p := range ps {
		if p.Status == model.PaymentStatusApproved {
			return true
		}
	}
	return false
}
