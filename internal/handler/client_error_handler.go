package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

// フロントで捕まえたエラーを受け取って残す。一覧は管理者だけ
type ClientErrorHandler struct {
	reports repository.ClientErrorRepository
	log     *slog.Logger
}

func NewClientErrorHandler(reports repository.ClientErrorRepository, log *slog.Logger) *ClientErrorHandler {
	return &ClientErrorHandler{reports: reports, log: log}
}

type ClientErrorRequest struct {
	Message   string `json:"message"`
	Stack     string `json:"stack"`
	URL       string `json:"url"`
	Component string `json:"component"`
	UserAgent string `json:"userAgent"`
}

func (h *ClientErrorHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/client-errors", h.report)

	admin := e.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/client-errors", h.list)
}

func (h *ClientErrorHandler) report(c echo.Context) error {
	var req ClientErrorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "message is required", Field: "message"})
	}
	if req.UserAgent == "" {
		req.UserAgent = c.Request().UserAgent()
	}

	ctx := c.Request().Context()
	r := &model.ClientErrorReport{
		Device:    middleware.DeviceID(c),
		Message:   truncate(req.Message, 4000),
		Stack:     truncate(req.Stack, 16000),
		URL:       truncate(req.URL, 2048),
		Component: truncate(req.Component, 128),
		UserAgent: truncate(req.UserAgent, 512),
	}
	if s := middleware.Session(c); s != nil {
		if u := s.User(); u != nil {
			id := u.ID
			r.UserID = &id
		}
	}

	h.log.WarnContext(ctx, "client error",
		"device", r.Device,
		"message", r.Message,
		"url", r.URL,
		"component", r.Component,
		"userAgent", r.UserAgent,
	)

	//保存に失敗してもログには残っているので 204 を返す
	if err := h.reports.Create(ctx, r); err != nil {
		h.log.ErrorContext(ctx, "client error save failed", "err", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ?device=&component=&since=RFC3339&limit=&offset=
func (h *ClientErrorHandler) list(c echo.Context) error {
	var f repository.ClientErrorFilter

	if v := c.QueryParam("device"); v != "" {
		f.Device = &v
	}
	if v := c.QueryParam("component"); v != "" {
		f.Component = &v
	}
	if v := c.QueryParam("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "since must be RFC3339", Field: "since"})
		}
		f.CreatedFrom = &t
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a number", Field: "limit"})
		}
		f.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "offset must be a number", Field: "offset"})
		}
		f.Offset = n
	}

	out, err := h.reports.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
