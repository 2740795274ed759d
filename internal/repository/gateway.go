package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 外部REST APIへの窓口。実装は internal/apiclient。

type AuthGateway interface {
	Login(ctx context.Context, email, password string) (model.AuthResponse, error)
	Register(ctx context.Context, payload model.RegisterPayload) (model.AuthResponse, error)
	Me(ctx context.Context, token string) (model.AuthUser, error)
}

type CustomerGateway interface {
	GetCustomer(ctx context.Context, token string, customerID int64) (model.Customer, error)
	UpdateCustomer(ctx context.Context, token string, customerID int64, payload model.CustomerUpdatePayload) (model.Customer, error)
}

type CatalogGateway interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (model.Category, error)
	ListCategoryProducts(ctx context.Context, categoryID int64) ([]model.Product, error)
}

type CartGateway interface {
	GetCart(ctx context.Context, token string, customerID int64) (model.Cart, error)
	AddCartItem(ctx context.Context, token string, customerID, productID, quantity int64) (model.Cart, error)
	UpdateCartItem(ctx context.Context, token string, customerID, itemID, quantity int64) (model.Cart, error)
	RemoveCartItem(ctx context.Context, token string, customerID, itemID int64) (model.Cart, error)
	Checkout(ctx context.Context, token string, customerID int64) (model.CheckoutStarted, error)
}

type CheckoutGateway interface {
	GetCheckoutSession(ctx context.Context, token, sessionID string) (model.CheckoutSession, error)
	PayCheckoutSession(ctx context.Context, token, sessionID string, in model.PayRequest, idempotencyKey string) (model.PaymentResult, error)
	FinalizeCheckoutSession(ctx context.Context, token, sessionID, idempotencyKey string) (model.FinalizeResult, error)
}

type PaymentMethodGateway interface {
	ListPaymentMethods(ctx context.Context, token string, customerID int64) ([]model.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, token string, customerID int64, payload model.PaymentMethodPayload) (model.PaymentMethod, error)
	SetDefaultPaymentMethod(ctx context.Context, token string, customerID int64, methodID string) (model.PaymentMethod, error)
	SetPaymentMethodEnabled(ctx context.Context, token string, customerID int64, methodID string, enabled bool) (model.PaymentMethod, error)
}

type OrderGateway interface {
	ListCustomerOrders(ctx context.Context, token string, customerID int64) ([]model.Order, error)
	GetOrder(ctx context.Context, token string, orderID int64) (model.Order, error)
	GetOrderTracking(ctx context.Context, token string, orderID int64) (model.OrderTracking, error)
	ListOrderPayments(ctx context.Context, token string, orderID int64) ([]model.PaymentTransaction, error)
}

type AdminCatalogGateway interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateProduct(ctx context.Context, token string, payload model.ProductPayload) (model.Product, error)
	UpdateProduct(ctx context.Context, token string, id int64, payload model.ProductPayload) (model.Product, error)
	DeleteProduct(ctx context.Context, token string, id int64) error
	CreateCategory(ctx context.Context, token string, payload model.CategoryPayload) (model.Category, error)
	UpdateCategory(ctx context.Context, token string, id int64, payload model.CategoryPayload) (model.Category, error)
	DeleteCategory(ctx context.Context, token string, id int64) error
}

type AdminUserGateway interface {
	AdminListUsers(ctx context.Context, token string) ([]model.AdminUser, error)
	AdminUpdateUser(ctx context.Context, token string, userID int64, payload model.AdminUserUpdatePayload) (model.AdminUser, error)
	AdminSetUserAccess(ctx context.Context, token string, userID int64, enabled bool) (model.AdminUser, error)
}

type AdminOrderGateway interface {
	AdminListOrders(ctx context.Context, token string) ([]model.Order, error)
	AdminUpdateOrderStatus(ctx context.Context, token string, orderID int64, status model.OrderStatus) (model.Order, error)
}
