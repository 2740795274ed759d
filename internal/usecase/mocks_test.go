package usecase_test

import (
	"context"
	"time"

	"storefront/internal/domain/model"

	"github.com/stretchr/testify/mock"
)

// =====================
// Identity stub
// =====================

type identityStub struct {
	token      string
	user       *model.AuthUser
	admin      bool
	customerID *int64
}

func (s *identityStub) Token() string         { return s.token }
func (s *identityStub) User() *model.AuthUser { return s.user }
func (s *identityStub) IsAdmin() bool         { return s.admin }
func (s *identityStub) CustomerID(context.Context) (int64, bool) {
	if s.customerID == nil {
		return 0, false
	}
	return *s.customerID, true
}

func customerIdentity() *identityStub {
	cid := int64(10)
	return &identityStub{
		token:      "tok",
		user:       &model.AuthUser{ID: 1, Roles: []string{"ROLE_CUSTOMER"}, CustomerID: &cid},
		customerID: &cid,
	}
}

func adminIdentity() *identityStub {
	return &identityStub{
		token: "admin-tok",
		user:  &model.AuthUser{ID: 7, Roles: []string{"ROLE_ADMIN"}},
		admin: true,
	}
}

// =====================
// Gateway mocks
// =====================

type CartGatewayMock struct{ mock.Mock }

func (m *CartGatewayMock) GetCart(ctx context.Context, token string, customerID int64) (model.Cart, error) {
	args := m.Called(ctx, token, customerID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartGatewayMock) AddCartItem(ctx context.Context, token string, customerID, productID, quantity int64) (model.Cart, error) {
	args := m.Called(ctx, token, customerID, productID, quantity)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartGatewayMock) UpdateCartItem(ctx context.Context, token string, customerID, itemID, quantity int64) (model.Cart, error) {
	args := m.Called(ctx, token, customerID, itemID, quantity)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartGatewayMock) RemoveCartItem(ctx context.Context, token string, customerID, itemID int64) (model.Cart, error) {
	args := m.Called(ctx, token, customerID, itemID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartGatewayMock) Checkout(ctx context.Context, token string, customerID int64) (model.CheckoutStarted, error) {
	args := m.Called(ctx, token, customerID)
	s, _ := args.Get(0).(model.CheckoutStarted)
	return s, args.Error(1)
}

type CheckoutGatewayMock struct{ mock.Mock }

func (m *CheckoutGatewayMock) GetCheckoutSession(ctx context.Context, token, sessionID string) (model.CheckoutSession, error) {
	args := m.Called(ctx, token, sessionID)
	s, _ := args.Get(0).(model.CheckoutSession)
	return s, args.Error(1)
}

func (m *CheckoutGatewayMock) PayCheckoutSession(ctx context.Context, token, sessionID string, in model.PayRequest, idempotencyKey string) (model.PaymentResult, error) {
	args := m.Called(ctx, token, sessionID, in, idempotencyKey)
	r, _ := args.Get(0).(model.PaymentResult)
	return r, args.Error(1)
}

func (m *CheckoutGatewayMock) FinalizeCheckoutSession(ctx context.Context, token, sessionID, idempotencyKey string) (model.FinalizeResult, error) {
	args := m.Called(ctx, token, sessionID, idempotencyKey)
	r, _ := args.Get(0).(model.FinalizeResult)
	return r, args.Error(1)
}

type PaymentMethodGatewayMock struct{ mock.Mock }

func (m *PaymentMethodGatewayMock) ListPaymentMethods(ctx context.Context, token string, customerID int64) ([]model.PaymentMethod, error) {
	args := m.Called(ctx, token, customerID)
	ms, _ := args.Get(0).([]model.PaymentMethod)
	return ms, args.Error(1)
}

func (m *PaymentMethodGatewayMock) CreatePaymentMethod(ctx context.Context, token string, customerID int64, payload model.PaymentMethodPayload) (model.PaymentMethod, error) {
	args := m.Called(ctx, token, customerID, payload)
	pm, _ := args.Get(0).(model.PaymentMethod)
	return pm, args.Error(1)
}

func (m *PaymentMethodGatewayMock) SetDefaultPaymentMethod(ctx context.Context, token string, customerID int64, methodID string) (model.PaymentMethod, error) {
	args := m.Called(ctx, token, customerID, methodID)
	pm, _ := args.Get(0).(model.PaymentMethod)
	return pm, args.Error(1)
}

func (m *PaymentMethodGatewayMock) SetPaymentMethodEnabled(ctx context.Context, token string, customerID int64, methodID string, enabled bool) (model.PaymentMethod, error) {
	args := m.Called(ctx, token, customerID, methodID, enabled)
	pm, _ := args.Get(0).(model.PaymentMethod)
	return pm, args.Error(1)
}

type OrderGatewayMock struct{ mock.Mock }

func (m *OrderGatewayMock) ListCustomerOrders(ctx context.Context, token string, customerID int64) ([]model.Order, error) {
	args := m.Called(ctx, token, customerID)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *OrderGatewayMock) GetOrder(ctx context.Context, token string, orderID int64) (model.Order, error) {
	args := m.Called(ctx, token, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderGatewayMock) GetOrderTracking(ctx context.Context, token string, orderID int64) (model.OrderTracking, error) {
	args := m.Called(ctx, token, orderID)
	t, _ := args.Get(0).(model.OrderTracking)
	return t, args.Error(1)
}

func (m *OrderGatewayMock) ListOrderPayments(ctx context.Context, token string, orderID int64) ([]model.PaymentTransaction, error) {
	args := m.Called(ctx, token, orderID)
	ps, _ := args.Get(0).([]model.PaymentTransaction)
	return ps, args.Error(1)
}

type AdminCatalogGatewayMock struct{ mock.Mock }

func (m *AdminCatalogGatewayMock) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *AdminCatalogGatewayMock) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

func (m *AdminCatalogGatewayMock) CreateProduct(ctx context.Context, token string, payload model.ProductPayload) (model.Product, error) {
	args := m.Called(ctx, token, payload)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *AdminCatalogGatewayMock) UpdateProduct(ctx context.Context, token string, id int64, payload model.ProductPayload) (model.Product, error) {
	args := m.Called(ctx, token, id, payload)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *AdminCatalogGatewayMock) DeleteProduct(ctx context.Context, token string, id int64) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *AdminCatalogGatewayMock) CreateCategory(ctx context.Context, token string, payload model.CategoryPayload) (model.Category, error) {
	args := m.Called(ctx, token, payload)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *AdminCatalogGatewayMock) UpdateCategory(ctx context.Context, token string, id int64, payload model.CategoryPayload) (model.Category, error) {
	args := m.Called(ctx, token, id, payload)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *AdminCatalogGatewayMock) DeleteCategory(ctx context.Context, token string, id int64) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

type AdminUserGatewayMock struct{ mock.Mock }

func (m *AdminUserGatewayMock) AdminListUsers(ctx context.Context, token string) ([]model.AdminUser, error) {
	args := m.Called(ctx, token)
	us, _ := args.Get(0).([]model.AdminUser)
	return us, args.Error(1)
}

func (m *AdminUserGatewayMock) AdminUpdateUser(ctx context.Context, token string, userID int64, payload model.AdminUserUpdatePayload) (model.AdminUser, error) {
	args := m.Called(ctx, token, userID, payload)
	u, _ := args.Get(0).(model.AdminUser)
	return u, args.Error(1)
}

func (m *AdminUserGatewayMock) AdminSetUserAccess(ctx context.Context, token string, userID int64, enabled bool) (model.AdminUser, error) {
	args := m.Called(ctx, token, userID, enabled)
	u, _ := args.Get(0).(model.AdminUser)
	return u, args.Error(1)
}

type AdminOrderGatewayMock struct{ mock.Mock }

func (m *AdminOrderGatewayMock) AdminListOrders(ctx context.Context, token string) ([]model.Order, error) {
	args := m.Called(ctx, token)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *AdminOrderGatewayMock) AdminUpdateOrderStatus(ctx context.Context, token string, orderID int64, status model.OrderStatus) (model.Order, error) {
	args := m.Called(ctx, token, orderID, status)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

// =====================
// Clock
// =====================

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
