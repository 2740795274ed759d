package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/tracking"

	"github.com/shopspring/decimal"
)

type AdminOrderUsecase struct {
	gw  repo.AdminOrderGateway
	log *slog.Logger
}

func NewAdminOrderUsecase(gw repo.AdminOrderGateway, log *slog.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{gw: gw, log: log}
}

// AdminOrderRow は注文一覧の1行（表示用の値つき）
type AdminOrderRow struct {
	model.Order
	CustomerLabel   string            `json:"customerLabel"`
	CustomerContact string            `json:"customerContact"`
	StatusLabel     string            `json:"statusLabel"`
	NextStatus      model.OrderStatus `json:"nextStatus,omitempty"`
}

type OrderSummary struct {
	TotalOrders int             `json:"totalOrders"`
	Revenue     decimal.Decimal `json:"revenue"`
	InProgress  int             `json:"inProgress"`
}

type AdminOrders struct {
	Orders  []AdminOrderRow `json:"orders"`
	Summary OrderSummary    `json:"summary"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, id Identity) (AdminOrders, error) {
	token, err := requireAdmin(id)
	if err != nil {
		return AdminOrders{}, err
	}
	orders, err := u.gw.AdminListOrders(ctx, token)
	if err != nil {
		return AdminOrders{}, err
	}
	return BuildAdminOrders(orders), nil
}

// Advance は追跡の順序で1段だけ進める。飛ばし/後戻りはしない。
func (u *AdminOrderUsecase) Advance(ctx context.Context, id Identity, screen *AdminScreen, orderID int64) (AdminOrders, error) {
	var out AdminOrders
	err := screen.mutate("order", orderID, func() (string, error) {
		token, err := requireAdmin(id)
		if err != nil {
			return "", err
		}

		// 現在のステータスはサーバーから取り直して決める
		orders, err := u.gw.AdminListOrders(ctx, token)
		if err != nil {
			return "", err
		}
		current, ok := findOrder(orders, orderID)
		if !ok {
			return "", ErrOrderNotFound
		}
		next, ok := tracking.Next(current.Status)
		if !ok {
			return "", ErrNoNextStage
		}

		updated, err := u.gw.AdminUpdateOrderStatus(ctx, token, orderID, next)
		if err != nil {
			return "", err
		}
		u.log.Info("order status advanced", "orderId", orderID, "from", current.Status, "to", next)

		orders, err = u.gw.AdminListOrders(ctx, token)
		if err != nil {
			return "", err
		}
		out = BuildAdminOrders(orders)

		number := updated.OrderNumber
		if number == "" {
			number = current.OrderNumber
		}
		return fmt.Sprintf("Order %s moved to %s.", number, tracking.Label(next, false)), nil
	})
	return out, err
}

// BuildAdminOrders は一覧の行と集計を作る
func BuildAdminOrders(orders []model.Order) AdminOrders {
	out := AdminOrders{Orders: make([]AdminOrderRow, 0, len(orders))}
	out.Summary.Revenue = decimal.Zero
	for _, o := range orders {
		row := AdminOrderRow{
			Order:           o,
			CustomerLabel:   model.CustomerLabel(o),
			CustomerContact: model.CustomerEmail(o),
			StatusLabel:     tracking.Label(o.Status, false),
		}
		if next, ok := tracking.Next(o.Status); ok {
			row.NextStatus = next
		}
		out.Orders = append(out.Orders, row)

		out.Summary.TotalOrders++
		out.Summary.Revenue = out.Summary.Revenue.Add(o.TotalAmount)
		if tracking.InProgress(o.Status) {
			out.Summary.InProgress++
		}
	}
	return out
}

func findOrder(orders []model.Order, id int64) (model.Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
}
