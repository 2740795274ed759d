package middleware

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// RequireAuth はサインイン済みの端末だけ通す
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := Session(c)
			if s == nil || s.Token() == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON(usecase.ErrSignInRequired.Error()))
			}
			return next(c)
		}
	}
}

// RequireAdmin は管理者ロールかつ管理者ビューのときだけ通す
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := Session(c)
			if s == nil || s.Token() == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON(usecase.ErrSignInRequired.Error()))
			}

			//顧客ビューに切り替えた管理者も拒否
			if !s.IsAdmin() {
				return c.JSON(http.StatusForbidden, errorJSON(usecase.ErrForbidden.Error()))
			}
			return next(c)
		}
	}
}
