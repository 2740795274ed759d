package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/orders, /admin/dashboard, /admin/notice
type AdminOrderHandler struct {
	orders    *usecase.AdminOrderUsecase
	dashboard *usecase.AdminDashboardUsecase
}

func NewAdminOrderHandler(orders *usecase.AdminOrderUsecase, dashboard *usecase.AdminDashboardUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders, dashboard: dashboard}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo) {
	admin := e.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/orders", h.list)
	admin.POST("/orders/:id/advance", h.advance)
	admin.GET("/dashboard", h.loadDashboard)
	admin.GET("/notice", h.notice)
	admin.DELETE("/notice", h.dismissNotice)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	out, err := h.orders.List(c.Request().Context(), middleware.Session(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 追跡ステータスを1段だけ進める
func (h *AdminOrderHandler) advance(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	out, err := h.orders.Advance(c.Request().Context(), middleware.Session(c), middleware.Workspace(c).Admin, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) loadDashboard(c echo.Context) error {
	out, err := h.dashboard.Load(c.Request().Context(), middleware.Session(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 期限切れなら null
func (h *AdminOrderHandler) notice(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.Workspace(c).Admin.Notices.Current())
}

func (h *AdminOrderHandler) dismissNotice(c echo.Context) error {
	middleware.Workspace(c).Admin.Notices.Dismiss()
	return c.NoContent(http.StatusNoContent)
}
