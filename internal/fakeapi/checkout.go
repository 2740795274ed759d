package fakeapi

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"storefront/internal/apiclient"
	"storefront/internal/domain/model"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var cvvPattern = regexp.MustCompile(`^\d{3,4}$`)

func (s *store) startCheckout(u *userRecord, customerID int64, ttl time.Duration) (model.CheckoutStarted, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canAccessCustomerLocked(u, customerID); err != nil {
		return model.CheckoutStarted{}, err
	}
	cart := s.cartViewLocked(s.cartLocked(customerID))
	if len(cart.Items) == 0 {
		return model.CheckoutStarted{}, badRequest("Cart is empty")
	}

	items := make([]model.CheckoutLineItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, model.CheckoutLineItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}

	now := s.now()
	cs := &checkoutRecord{
		id:         uuid.NewString(),
		customerID: customerID,
		status:     model.CheckoutStatusInitiated,
		amount:     cart.TotalAmount,
		items:      items,
		createdAt:  now,
		expiresAt:  now.Add(ttl),
	}
	s.checkouts[cs.id] = cs

	return model.CheckoutStarted{
		CheckoutSessionID: cs.id,
		Status:            cs.status,
		Amount:            cs.amount,
	}, nil
}

// checkoutLocked は所有者チェックと期限切れの反映をして返す
func (s *store) checkoutLocked(u *userRecord, id string) (*checkoutRecord, error) {
	cs, ok := s.checkouts[id]
	if !ok {
		return nil, notFound("Checkout session not found")
	}
	if err := s.canAccessCustomerLocked(u, cs.customerID); err != nil {
		return nil, err
	}
	// 期限切れは参照時に反映する
	if cs.status.CanPay() && s.now().After(cs.expiresAt) {
		cs.status = model.CheckoutStatusExpired
	}
	return cs, nil
}

func checkoutView(cs *checkoutRecord) model.CheckoutSession {
	out := model.CheckoutSession{
		CheckoutSessionID: cs.id,
		Status:            cs.status,
		Amount:            cs.amount,
		Items:             append([]model.CheckoutLineItem{}, cs.items...),
		CreatedAt:         cs.createdAt,
	}
	if cs.orderID != nil {
		id := *cs.orderID
		out.OrderID = &id
	}
	return out
}

func (s *store) getCheckout(u *userRecord, id string) (model.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := s.checkoutLocked(u, id)
	if err != nil {
		return model.CheckoutSession{}, err
	}
	return checkoutView(cs), nil
}

func replayKey(sessionID, key string) string {
	return sessionID + "|" + key
}

// pay は1回の決済試行。同じ冪等キーの再送は保存済みの結果を返し、課金しない
func (s *store) pay(ctx context.Context, gw PaymentGateway, u *userRecord, id string, in model.PayRequest, key string) (model.PaymentResult, error) {
	if key == "" {
		return model.PaymentResult{}, badRequest("Idempotency-Key header is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := s.checkoutLocked(u, id)
	if err != nil {
		return model.PaymentResult{}, err
	}
	if res, ok := s.payReplays[replayKey(id, key)]; ok {
		return res, nil
	}
	if !cs.status.CanPay() {
		return model.PaymentResult{}, conflict(fmt.Sprintf("Checkout session is not payable (status %s)", cs.status))
	}

	var method *model.PaymentMethod
	for _, m := range s.methods[cs.customerID] {
		if m.ID == in.PaymentMethodID {
			method = m
			break
		}
	}
	if method == nil {
		return model.PaymentResult{}, badRequest("Payment method not found")
	}
	if !method.Enabled {
		return model.PaymentResult{}, badRequest("Payment method is disabled")
	}
	if !cvvPattern.MatchString(in.CVV) {
		return model.PaymentResult{}, badRequest("Invalid CVV")
	}

	cs.status = model.CheckoutStatusPaymentPending
	charge, err := gw.Charge(ctx, cs.amount, *method, in.CVV)
	if err != nil {
		// 結果不明。キーは記録しないので同じキーで再送できる
		return model.PaymentResult{}, NewHTTPError(http.StatusBadGateway, "Payment gateway unavailable")
	}

	txnID := charge.TransactionID
	if txnID == "" {
		txnID = "txn_" + uuid.NewString()
	}
	cs.attempts = append(cs.attempts, model.PaymentTransaction{
		ID:                  txnID,
		Status:              charge.Status,
		GatewayResponseCode: charge.ResponseCode,
		GatewayMessage:      charge.Message,
		ProcessedAt:         s.now(),
	})
	if charge.Status == model.PaymentStatusApproved {
		cs.status = model.CheckoutStatusApproved
	} else {
		cs.status = model.CheckoutStatusFailed
	}

	res := model.PaymentResult{
		Status:          charge.Status,
		GatewayMessage:  charge.Message,
		TransactionID:   txnID,
		CheckoutStatus:  cs.status,
		GatewayResponse: charge.ResponseCode,
	}
	s.payReplays[replayKey(id, key)] = res
	return res, nil
}

// finalize は承認済みセッションを注文に変え、カートを空にする
func (s *store) finalize(u *userRecord, id, key string) (model.FinalizeResult, error) {
	if key == "" {
		return model.FinalizeResult{}, badRequest("Idempotency-Key header is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := s.checkoutLocked(u, id)
	if err != nil {
		return model.FinalizeResult{}, err
	}
	if res, ok := s.finalizeReplays[replayKey(id, key)]; ok {
		return res, nil
	}
	switch cs.status {
	case model.CheckoutStatusApproved:
	case model.CheckoutStatusConsumed:
		return model.FinalizeResult{}, conflict("Checkout session is already finalized")
	default:
		return model.FinalizeResult{}, conflict("Payment has not been approved")
	}

	now := s.now()
	orderID := s.next("order")
	customerID := cs.customerID
	order := model.Order{
		ID:                orderID,
		OrderNumber:       fmt.Sprintf("ORD-%06d", orderID),
		Status:            model.OrderStatusPlaced,
		TotalAmount:       cs.amount,
		CreatedAt:         now,
		CustomerID:        &customerID,
		CheckoutSessionID: cs.id,
		Items:             make([]model.OrderItem, 0, len(cs.items)),
	}
	for _, it := range cs.items {
		order.Items = append(order.Items, model.OrderItem{
			ID:          s.next("orderItem"),
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
		if p, ok := s.products[it.ProductID]; ok {
			p.product.StockQuantity -= it.Quantity
			if p.product.StockQuantity < 0 {
				p.product.StockQuantity = 0
			}
		}
	}
	s.orders[orderID] = &orderRecord{
		order:    order,
		events:   []model.TrackingEvent{{Status: model.OrderStatusPlaced, At: now}},
		payments: append([]model.PaymentTransaction{}, cs.attempts...),
	}

	if cart, ok := s.carts[customerID]; ok {
		cart.items = nil
	}
	cs.status = model.CheckoutStatusConsumed
	cs.orderID = &orderID

	res := model.FinalizeResult{OrderID: orderID, OrderNumber: order.OrderNumber, Status: cs.status}
	s.finalizeReplays[replayKey(id, key)] = res
	return res, nil
}

// ---- handlers ----

func (s *Server) startCheckout(c echo.Context) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := s.store.startCheckout(currentUser(c), customerID, s.cfg.CheckoutTTL)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (s *Server) getCheckout(c echo.Context) error {
	out, err := s.store.getCheckout(currentUser(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) payCheckout(c echo.Context) error {
	var req model.PayRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	key := c.Request().Header.Get(apiclient.IdempotencyKeyHeader)

	res, err := s.store.pay(c.Request().Context(), s.gateway, currentUser(c), c.Param("id"), req, key)
	if err != nil {
		return writeError(c, err)
	}
	s.log.Info("payment attempt",
		"checkoutSessionId", c.Param("id"),
		"status", res.Status,
		"checkoutStatus", res.CheckoutStatus,
	)
	return c.JSON(http.StatusOK, res)
}

func (s *Server) finalizeCheckout(c echo.Context) error {
	key := c.Request().Header.Get(apiclient.IdempotencyKeyHeader)

	res, err := s.store.finalize(currentUser(c), c.Param("id"), key)
	if err != nil {
		return writeError(c, err)
	}
	s.log.Info("checkout finalized", "checkoutSessionId", c.Param("id"), "orderNumber", res.OrderNumber)
	return c.JSON(http.StatusOK, res)
}
