package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const HealthzPath = "/healthz"

// RouteRegistrar は handler ごとのルート登録
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

func RegisterRoutes(e *echo.Echo, handlers ...RouteRegistrar) {
	e.GET(HealthzPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	for _, h := range handlers {
		h.RegisterRoutes(e)
	}
}
