package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkout/:id のHTTP。GET がページを開く（冪等キーもここで新しくなる）
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type SelectMethodRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
}

type PayRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
	CVV             string `json:"cvv"`
}

type PayResponse struct {
	Outcome usecase.PayOutcome   `json:"outcome"`
	View    usecase.CheckoutView `json:"view"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/checkout")
	g.Use(middleware.RequireAuth())

	g.GET("/:id", h.open)
	g.POST("/:id/reload", h.reload)
	g.POST("/:id/select", h.selectMethod)
	g.POST("/:id/pay", h.pay)
	g.POST("/:id/payment-methods", h.addPaymentMethod)
}

func (h *CheckoutHandler) open(c echo.Context) error {
	ws := middleware.Workspace(c)

	page, err := h.uc.Open(c.Request().Context(), middleware.Session(c), ws.Cart, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	ws.SetPage(page)
	return c.JSON(http.StatusOK, page.View())
}

// page は開いているページを返す。開いていなければここで開く
func (h *CheckoutHandler) page(c echo.Context) (*usecase.CheckoutPage, error) {
	ws := middleware.Workspace(c)
	if p, ok := ws.Page(c.Param("id")); ok {
		return p, nil
	}
	p, err := h.uc.Open(c.Request().Context(), middleware.Session(c), ws.Cart, c.Param("id"))
	if err != nil {
		return nil, err
	}
	ws.SetPage(p)
	return p, nil
}

func (h *CheckoutHandler) reload(c echo.Context) error {
	p, err := h.page(c)
	if err != nil {
		return writeError(c, err)
	}
	view, err := p.Reload(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CheckoutHandler) selectMethod(c echo.Context) error {
	var req SelectMethodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.page(c)
	if err != nil {
		return writeError(c, err)
	}
	view, err := p.SelectMethod(req.PaymentMethodID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CheckoutHandler) pay(c echo.Context) error {
	var req PayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.page(c)
	if err != nil {
		return writeError(c, err)
	}
	outcome, err := p.Pay(c.Request().Context(), req.PaymentMethodID, req.CVV)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, PayResponse{Outcome: outcome, View: p.View()})
}

func (h *CheckoutHandler) addPaymentMethod(c echo.Context) error {
	var req model.PaymentMethodPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.page(c)
	if err != nil {
		return writeError(c, err)
	}
	view, err := p.AddPaymentMethod(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}
