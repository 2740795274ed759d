package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	DeviceCookieName = "sid"

	CtxDeviceKey    = "device_id" // string
	CtxSessionKey   = "session"   // *session.Store
	CtxWorkspaceKey = "workspace" // *usecase.Workspace
)

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// Device は sid cookie で端末を識別し、その端末の Store と Workspace を context に入れる。
// cookie が無い・壊れているときは新しい端末IDを発行する。
func Device(sessions *session.Manager, workspaces *usecase.Workspaces, log *slog.Logger, secure bool, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			device := ""
			if ck, err := c.Cookie(DeviceCookieName); err == nil {
				if _, err := uuid.Parse(ck.Value); err == nil {
					device = ck.Value
				}
			}
			fresh := device == ""
			if fresh {
				device = uuid.NewString()
			}

			//毎回有効期限を延ばす
			c.SetCookie(&http.Cookie{
				Name:     DeviceCookieName,
				Value:    device,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			// 発行したばかりの端末には復元するものが無い
			var store *session.Store
			if fresh {
				store = sessions.Open(device)
			} else {
				var err error
				store, err = sessions.Get(c.Request().Context(), device)
				if err != nil {
					log.ErrorContext(c.Request().Context(), "session init failed", "device", device, "err", err)
					return c.JSON(http.StatusServiceUnavailable, errorJSON("session unavailable"))
				}
			}

			c.Set(CtxDeviceKey, device)
			c.Set(CtxSessionKey, store)
			c.Set(CtxWorkspaceKey, workspaces.Get(device, store))
			return next(c)
		}
	}
}

func DeviceID(c echo.Context) string {
	v, _ := c.Get(CtxDeviceKey).(string)
	return v
}

func Session(c echo.Context) *session.Store {
	v, _ := c.Get(CtxSessionKey).(*session.Store)
	return v
}

func Workspace(c echo.Context) *usecase.Workspace {
	v, _ := c.Get(CtxWorkspaceKey).(*usecase.Workspace)
	return v
}
