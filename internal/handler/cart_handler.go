package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart のHTTP。カートの状態は端末の Workspace が持つ
type CartHandler struct{}

// DI
func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type CartResponse struct {
	Cart      *model.Cart `json:"cart"`
	ItemCount int64       `json:"itemCount"`
	Mutating  bool        `json:"mutating"`
}

type CheckoutStartedResponse struct {
	CheckoutSessionID string `json:"checkoutSessionId"`
}

// /cart, /cart/items/:id を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")
	g.Use(middleware.RequireAuth())

	g.GET("", h.getCart)
	g.POST("/items", h.addItem)
	g.PATCH("/items/:id", h.patchItem)
	g.DELETE("/items/:id", h.deleteItem)
	g.POST("/checkout", h.checkout)
}

func cartResponse(cart *usecase.CartUsecase, c *model.Cart) CartResponse {
	return CartResponse{Cart: c, ItemCount: c.ItemCount(), Mutating: cart.Mutating()}
}

func (h *CartHandler) getCart(c echo.Context) error {
	cart := middleware.Workspace(c).Cart

	out, err := cart.Refresh(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse(cart, out))
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req model.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cart := middleware.Workspace(c).Cart
	out, err := cart.AddItem(c.Request().Context(), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse(cart, out))
}

func (h *CartHandler) patchItem(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cart := middleware.Workspace(c).Cart
	out, err := cart.UpdateItem(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse(cart, out))
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	cart := middleware.Workspace(c).Cart
	out, err := cart.RemoveItem(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse(cart, out))
}

func (h *CartHandler) checkout(c echo.Context) error {
	started, err := middleware.Workspace(c).Cart.Checkout(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, CheckoutStartedResponse{CheckoutSessionID: started.CheckoutSessionID})
}
