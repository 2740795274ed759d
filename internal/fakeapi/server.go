// Package fakeapi はストアフロントが呼ぶ REST API のメモリ実装。
// ローカル開発とテストで本物のバックエンドの代わりに使う。
package fakeapi

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Config struct {
	JWTSecret   string
	TokenTTL    time.Duration
	CheckoutTTL time.Duration
	// 0 以下なら bcrypt.DefaultCost
	BcryptCost int
	Now        func() time.Time
	Gateway    PaymentGateway
	Logger     *slog.Logger
}

type Server struct {
	cfg     Config
	echo    *echo.Echo
	store   *store
	hasher  *bcryptPasswordHasher
	issuer  *jwtIssuer
	gateway PaymentGateway
	log     *slog.Logger
}

func New(cfg Config) *Server {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev_secret_change_me"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.CheckoutTTL <= 0 {
		cfg.CheckoutTTL = 30 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Gateway == nil {
		cfg.Gateway = MockGateway{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		cfg:     cfg,
		store:   newStore(cfg.Now),
		hasher:  newBcryptPasswordHasher(cfg.BcryptCost),
		issuer:  &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: cfg.TokenTTL},
		gateway: cfg.Gateway,
		log:     cfg.Logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	s.registerRoutes(e.Group("/api/v1"))
	s.echo = e
	return s
}

func (s *Server) now() time.Time {
	return s.cfg.Now()
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) registerRoutes(g *echo.Group) {
	auth := s.authJWT()
	admin := s.adminRoleGuard()

	g.POST("/auth/login", s.login)
	g.POST("/auth/register", s.register)
	g.GET("/auth/me", s.me, auth)

	// 公開の参照系
	g.GET("/products", s.listProducts)
	g.GET("/products/:id", s.getProduct)
	g.GET("/categories", s.listCategories)
	g.GET("/categories/:id", s.getCategory)
	g.GET("/categories/:id/products", s.listCategoryProducts)

	g.POST("/products", s.createProduct, auth, admin)
	g.PUT("/products/:id", s.updateProduct, auth, admin)
	g.DELETE("/products/:id", s.deleteProduct, auth, admin)
	g.POST("/categories", s.createCategory, auth, admin)
	g.PUT("/categories/:id", s.updateCategory, auth, admin)
	g.DELETE("/categories/:id", s.deleteCategory, auth, admin)

	cg := g.Group("/customers/:customerId", auth)
	cg.GET("", s.getCustomer)
	cg.PUT("", s.updateCustomer)
	cg.GET("/cart", s.getCart)
	cg.POST("/cart/items", s.addCartItem)
	cg.PATCH("/cart/items/:itemId", s.updateCartItem)
	cg.DELETE("/cart/items/:itemId", s.removeCartItem)
	cg.POST("/orders/checkout", s.startCheckout)
	cg.GET("/orders", s.listCustomerOrders)
	cg.GET("/payment-methods", s.listPaymentMethods)
	cg.POST("/payment-methods", s.createPaymentMethod)
	cg.PATCH("/payment-methods/:methodId/default", s.setDefaultPaymentMethod)
	cg.PATCH("/payment-methods/:methodId/enabled", s.setPaymentMethodEnabled)

	g.GET("/checkout-sessions/:id", s.getCheckout, auth)
	g.POST("/checkout-sessions/:id/pay", s.payCheckout, auth)
	g.POST("/checkout-sessions/:id/finalize", s.finalizeCheckout, auth)

	g.GET("/orders/:id", s.getOrder, auth)
	g.GET("/orders/:id/tracking", s.getOrderTracking, auth)
	g.GET("/orders/:id/payments", s.listOrderPayments, auth)

	ag := g.Group("/admin", auth, admin)
	ag.GET("/orders", s.adminListOrders)
	ag.PATCH("/orders/:id/status", s.adminUpdateOrderStatus)
	ag.GET("/users", s.adminListUsers)
	ag.PATCH("/users/:id", s.adminUpdateUser)
	ag.PATCH("/users/:id/access", s.adminSetUserAccess)
}
