package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	appmw "storefront/internal/middleware"
	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Options は BFF サーバーの組み立てに必要なもの
type Options struct {
	Sessions   *session.Manager
	Workspaces *usecase.Workspaces
	Handlers   []RouteRegistrar
	Logger     *slog.Logger

	CookieSecure bool
	CookieTTL    time.Duration
	BodyLimit    string
}

type Server struct {
	echo *echo.Echo
	log  *slog.Logger
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.BodyLimit == "" {
		opts.BodyLimit = "1M"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(opts.BodyLimit))
	e.Use(requestLogger(log))
	e.Use(skipPaths(appmw.Device(opts.Sessions, opts.Workspaces, log, opts.CookieSecure, opts.CookieTTL), HealthzPath))

	RegisterRoutes(e, opts.Handlers...)

	return &Server{echo: e, log: log}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start は Shutdown されるまで戻らない
func (s *Server) Start(addr string) error {
	s.log.Info("bff listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// skipPaths はルートのパスが一致するときだけ mw を通さない
func skipPaths(mw echo.MiddlewareFunc, paths ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(c echo.Context) error {
			for _, p := range paths {
				if c.Path() == p {
					return next(c)
				}
			}
			return wrapped(c)
		}
	}
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				log.ErrorContext(c.Request().Context(), "request", append(attrs, "err", v.Error)...)
				return nil
			}
			log.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}
