package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// プロフィール画面の支払い方法
type PaymentMethodHandler struct {
	uc *usecase.PaymentMethodUsecase
}

func NewPaymentMethodHandler(uc *usecase.PaymentMethodUsecase) *PaymentMethodHandler {
	return &PaymentMethodHandler{uc: uc}
}

func (h *PaymentMethodHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/payment-methods")
	g.Use(middleware.RequireAuth())

	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/:id/default", h.setDefault)
	g.POST("/:id/enabled", h.setEnabled)
}

func (h *PaymentMethodHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), middleware.Session(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentMethodHandler) create(c echo.Context) error {
	var req model.PaymentMethodPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), middleware.Session(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PaymentMethodHandler) setDefault(c echo.Context) error {
	out, err := h.uc.SetDefault(c.Request().Context(), middleware.Session(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentMethodHandler) setEnabled(c echo.Context) error {
	var req model.PaymentMethodEnabledRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SetEnabled(c.Request().Context(), middleware.Session(c), c.Param("id"), req.Enabled)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
