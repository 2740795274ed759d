package handler

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /session のHTTP（ログイン状態と表示モード）
type AuthHandler struct {
	log *slog.Logger
}

// DI
func NewAuthHandler(log *slog.Logger) *AuthHandler {
	return &AuthHandler{log: log}
}

type ViewModeRequest struct {
	ViewMode model.ViewMode `json:"viewMode"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/session")
	g.GET("", h.snapshot)
	g.POST("/login", h.login)
	g.POST("/register", h.register)
	g.POST("/refresh", h.refresh)
	g.POST("/view-mode/toggle", h.toggleViewMode)
	g.PUT("/view-mode", h.setViewMode)
	g.DELETE("", h.logout)
}

func (h *AuthHandler) snapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.Session(c).Snapshot(c.Request().Context()))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	snap, err := middleware.Session(c).Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	h.resetWorkspace(c.Request().Context(), middleware.Workspace(c))
	return c.JSON(http.StatusOK, snap)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req model.RegisterPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	snap, err := middleware.Session(c).Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	h.resetWorkspace(c.Request().Context(), middleware.Workspace(c))
	return c.JSON(http.StatusCreated, snap)
}

func (h *AuthHandler) refresh(c echo.Context) error {
	snap, err := middleware.Session(c).RefreshUser(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *AuthHandler) toggleViewMode(c echo.Context) error {
	snap, err := middleware.Session(c).ToggleViewMode(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	h.resetWorkspace(c.Request().Context(), middleware.Workspace(c))
	return c.JSON(http.StatusOK, snap)
}

func (h *AuthHandler) setViewMode(c echo.Context) error {
	var req ViewModeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	snap, err := middleware.Session(c).SetViewMode(c.Request().Context(), req.ViewMode)
	if err != nil {
		return writeError(c, err)
	}
	h.resetWorkspace(c.Request().Context(), middleware.Workspace(c))
	return c.JSON(http.StatusOK, snap)
}

func (h *AuthHandler) logout(c echo.Context) error {
	if err := middleware.Session(c).Logout(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	h.resetWorkspace(c.Request().Context(), middleware.Workspace(c))
	return c.NoContent(http.StatusNoContent)
}

// ユーザーや顧客IDが変わったら開いている決済ページを閉じ、カートを取り直す
func (h *AuthHandler) resetWorkspace(ctx context.Context, ws *usecase.Workspace) {
	ws.ClosePages()
	if _, err := ws.Cart.Refresh(ctx); err != nil {
		h.log.WarnContext(ctx, "cart refresh after session change failed", "err", err)
	}
}
