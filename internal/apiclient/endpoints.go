package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/domain/model"
)

// ---- auth ----

func (c *Client) Login(ctx context.Context, email, password string) (model.AuthResponse, error) {
	return request[model.AuthResponse](ctx, c, call{
		method: http.MethodPost, path: "/auth/login",
		body: model.LoginRequest{Email: email, Password: password},
	})
}

func (c *Client) Register(ctx context.Context, payload model.RegisterPayload) (model.AuthResponse, error) {
	return request[model.AuthResponse](ctx, c, call{method: http.MethodPost, path: "/auth/register", body: payload})
}

func (c *Client) Me(ctx context.Context, token string) (model.AuthUser, error) {
	return request[model.AuthUser](ctx, c, call{method: http.MethodGet, path: "/auth/me", token: token})
}

// ---- catalog ----

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	return request[[]model.Product](ctx, c, call{method: http.MethodGet, path: "/products"})
}

func (c *Client) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	return request[model.Product](ctx, c, call{method: http.MethodGet, path: fmt.Sprintf("/products/%d", id)})
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	return request[[]model.Category](ctx, c, call{method: http.MethodGet, path: "/categories"})
}

func (c *Client) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	return request[model.Category](ctx, c, call{method: http.MethodGet, path: fmt.Sprintf("/categories/%d", id)})
}

func (c *Client) ListCategoryProducts(ctx context.Context, categoryID int64) ([]model.Product, error) {
	return request[[]model.Product](ctx, c, call{method: http.MethodGet, path: fmt.Sprintf("/categories/%d/products", categoryID)})
}

func (c *Client) CreateProduct(ctx context.Context, token string, payload model.ProductPayload) (model.Product, error) {
	return request[model.Product](ctx, c, call{method: http.MethodPost, path: "/products", token: token, body: payload})
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id int64, payload model.ProductPayload) (model.Product, error) {
	return request[model.Product](ctx, c, call{method: http.MethodPut, path: fmt.Sprintf("/products/%d", id), token: token, body: payload})
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id int64) error {
	_, err := request[empty](ctx, c, call{method: http.MethodDelete, path: fmt.Sprintf("/products/%d", id), token: token})
	return err
}

func (c *Client) CreateCategory(ctx context.Context, token string, payload model.CategoryPayload) (model.Category, error) {
	return request[model.Category](ctx, c, call{method: http.MethodPost, path: "/categories", token: token, body: payload})
}

func (c *Client) UpdateCategory(ctx context.Context, token string, id int64, payload model.CategoryPayload) (model.Category, error) {
	return request[model.Category](ctx, c, call{method: http.MethodPut, path: fmt.Sprintf("/categories/%d", id), token: token, body: payload})
}

func (c *Client) DeleteCategory(ctx context.Context, token string, id int64) error {
	_, err := request[empty](ctx, c, call{method: http.MethodDelete, path: fmt.Sprintf("/categories/%d", id), token: token})
	return err
}

// ---- customers ----

func (c *Client) GetCustomer(ctx context.Context, token string, customerID int64) (model.Customer, error) {
	return request[model.Customer](ctx, c, call{method: http.MethodGet, path: fmt.Sprintf("/customers/%d", customerID), token: token})
}

func (c *Client) UpdateCustomer(ctx context.Context, token string, customerID int64, payload model.CustomerUpdatePayload) (model.Customer, error) {
	return request[model.Customer](ctx, c, call{method: http.MethodPut, path: fmt.Sprintf("/customers/%d", customerID), token: token, body: payload})
}

// ---- cart ----

func (c *Client) GetCart(ctx context.Context, token string, customerID int64) (model.Cart, error) {
	return request[model.Cart](ctx, c, call{method: http.MethodGet, path: fmt.Sprintf("/customers/%d/cart", customerID), token: token})
}

func (c *Client) AddCartItem(ctx context.Context, token string, customerID, productID, quantity int64) (model.Cart, error) {
	return request[model.Cart](ctx, c, call{
		method: http.MethodPost, path: fmt.Sprintf("/customers/%d/cart/items", customerID), token: token,
		body: model.AddCartItemRequest{ProductID: productID, Quantity: quantity},
	})
}

func (c *Client) UpdateCartItem(ctx context.Context, token string, customerID, itemID, quantity int64) (model.Cart, error) {
	return request[model.Cart](ctx, c, call{
		method: http.MethodPatch, path: fmt.Sprintf("/customers/%d/cart/items/%d", customerID, itemID), token: token,
		body: model.UpdateCartItemRequest{Quantity: quantity},
	})
}

func (c *Client) RemoveCartItem(ctx context.Context, token string, customerID, itemID int64) (model.Cart, error) {
	return request[model.Cart](ctx, c, call{
		method: http.MethodDelete, path: fmt.Sprintf("/customers/%d/cart/items/%d", customerID, itemID), token: token,
	})
}

func (c *Client) Checkout(ctx context.Context, token string, customerID int64) (model.CheckoutStarted, error) {
	return request[model.CheckoutStarted](ctx, c, call{
		method: http.MethodPost, path: fmt.Sprintf("/customers/%d/orders/checkout", customerID), token: token,
	})
}

func (c *Client) ListCustomerOrders(ctx context.Context, token string, customerID int64) ([]model.Order, error) {
	return request[[]model.Order](ctx, c, call{method: http.MethodGet, path: fmt.Sprintf("/customers/%d/orders", customerID), token: token})
}

// ---- checkout sessions ----

func (c *Client) GetCheckoutSession(ctx context.Context, token, sessionID string) (model.CheckoutSession, error) {
	return request[model.CheckoutSession](ctx, c, call{method: http.MethodGet, path: "/checkout-sessions/" + sessionID, token: token})
}

func (c *Client) PayCheckoutSession(ctx context.Context, token, sessionID string, in model.PayRequest, idempotencyKey string) (model.PaymentResult, error) {
	return request[model.PaymentResult](ctx, c, call{
		method: http.MethodPost, path: "/checkout-sessions/" + sessionID + "/pay", token: token, body: in,
		headers: map[string]string{IdempotencyKeyHeader: idempotencyKey},
	})
}

func (c *Client) FinalizeCheckoutSession(ctx context.Context, token, sessionID, idempotencyKey string) (model.FinalizeResult, error) {
	return request[model.FinalizeResult](ctx, c, call{
		method: http.MethodPost, path: "/checkout-sessions/" + sessionID + "/finalize", token: token,
		headers: map[string]string{IdempotencyKeyHeader: idempotencyKey},
	})
}

// ---- payment methods ----

func (c *Client) ListPaymentMethods(ctx context.Context, token string, customerID int64) ([]model.PaymentMethod, error) {
	return request[[]model.PaymentMethod](ctx, c, call{method: http.MethodGet, path: fmt.Sprintf("/customers/%d/payment-methods", customerID), token: token})
}

func (c *Client) CreatePaymentMethod(ctx context.Context, token string, customerID int64, payload model.PaymentMethodPayload) (model.PaymentMethod, error) {
	return request[model.PaymentMethod](ctx, c, call{
		method: http.MethodPost, path: fmt.Sprintf("/customers/%d/payment-methods", customerID), token: token, body: payload,
	})
}

func (c *Client) SetDefaultPaymentMethod(ctx context.Context, token string, customerID int64, methodID string) (model.PaymentMethod, error) {
	return request[model.PaymentMethod](ctx, c, call{
		method: http.MethodPatch, path: fmt.Sprintf("/customers/%d/payment-methods/%s/default", customerID, methodID), token: token,
	})
}

func (c *Client) SetPaymentMethodEnabled(ctx context.Context, token string, customerID int64, methodID string, enabled bool) (model.PaymentMethod, error) {
	return request[model.PaymentMethod](ctx, c, call{
		method: http.MethodPatch, path: fmt.Sprintf("/customers/%d/payment-methods/%s/enabled", customerID, methodID), token: token,
		body: model.PaymentMethodEnabledRequest{Enabled: enabled},
	})
}

// ---- orders ----

func (c *Client) GetOrder(ctx context.Context, token string, orderID int64) (model.Order, error) {
	return request[model.Order](ctx, c, call{method: http.MethodGet, path: fmt.Sprintf("/orders/%d", orderID), token: token})
}

func (c *Client) GetOrderTracking(ctx context.Context, token string, orderID int64) (model.OrderTracking, error) {
	return request[model.OrderTracking](ctx, c, call{method: http.MethodGet, path: fmt.Sprintf("/orders/%d/tracking", orderID), token: token})
}

func (c *Client) ListOrderPayments(ctx context.Context, token string, orderID int64) ([]model.PaymentTransaction, error) {
	return request[[]model.PaymentTransaction](ctx, c, call{method: http.MethodGet, path: fmt.Sprintf("/orders/%d/payments", orderID), token: token})
}

// ---- admin ----

func (c *Client) AdminListOrders(ctx context.Context, token string) ([]model.Order, error) {
	return request[[]model.Order](ctx, c, call{method: http.MethodGet, path: "/admin/orders", token: token})
}

func (c *Client) AdminUpdateOrderStatus(ctx context.Context, token string, orderID int64, status model.OrderStatus) (model.Order, error) {
	return request[model.Order](ctx, c, call{
		method: http.MethodPatch, path: fmt.Sprintf("/admin/orders/%d/status", orderID), token: token,
		body: model.OrderStatusUpdateRequest{Status: status},
	})
}

func (c *Client) AdminListUsers(ctx context.Context, token string) ([]model.AdminUser, error) {
	return request[[]model.AdminUser](ctx, c, call{method: http.MethodGet, path: "/admin/users", token: token})
}

func (c *Client) AdminUpdateUser(ctx context.Context, token string, userID int64, payload model.AdminUserUpdatePayload) (model.AdminUser, error) {
	return request[model.AdminUser](ctx, c, call{
		method: http.MethodPatch, path: fmt.Sprintf("/admin/users/%d", userID), token: token, body: payload,
	})
}

func (c *Client) AdminSetUserAccess(ctx context.Context, token string, userID int64, enabled bool) (model.AdminUser, error) {
	return request[model.AdminUser](ctx, c, call{
		method: http.MethodPatch, path: fmt.Sprintf("/admin/users/%d/access", userID), token: token,
		body: model.UserAccessPayload{Enabled: enabled},
	})
}
