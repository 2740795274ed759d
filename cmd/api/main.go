package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/apiclient"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logging"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)

	//セッション保存先
	st, err := openStores(cfg, log)
	if err != nil {
		log.Error("storage open failed", "store", cfg.SessionStore, "err", err)
		os.Exit(1)
	}
	defer st.close()

	//外部REST API
	api := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(log),
	)

	//Usecase生成
	sessions := session.NewManager(api, api, st.sessions, log, session.WithIdleTTL(cfg.IdleTTL))
	workspaces := usecase.NewWorkspaces(api, usecase.SystemClock, cfg.NoticeTTL, log)

	catalogUC := usecase.NewCatalogUsecase(api)
	checkoutUC := usecase.NewCheckoutUsecase(api, api, log)
	orderUC := usecase.NewOrderUsecase(api)
	methodUC := usecase.NewPaymentMethodUsecase(api, usecase.SystemClock)
	profileUC := usecase.NewProfileUsecase(api)

	adminCategoryUC := usecase.NewAdminCategoryUsecase(api, log)
	adminProductUC := usecase.NewAdminProductUsecase(api, log)
	adminUserUC := usecase.NewAdminUserUsecase(api, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(api, log)
	dashboardUC := usecase.NewAdminDashboardUsecase(api, api, api)

	//Handler生成
	srv := server.New(server.Options{
		Sessions:   sessions,
		Workspaces: workspaces,
		Logger:     log,
		Handlers: []server.RouteRegistrar{
			handler.NewAuthHandler(log),
			handler.NewProductHandler(catalogUC),
			handler.NewCartHandler(),
			handler.NewCheckoutHandler(checkoutUC),
			handler.NewOrderHandler(orderUC),
			handler.NewPaymentMethodHandler(methodUC),
			handler.NewProfileHandler(profileUC),
			handler.NewAdminProductHandler(adminProductUC, adminCategoryUC),
			handler.NewAdminUserHandler(adminUserUC),
			handler.NewAdminOrderHandler(adminOrderUC, dashboardUC),
			handler.NewClientErrorHandler(st.clientErrors, log),
		},
		CookieSecure: cfg.CookieSecure,
		CookieTTL:    cfg.SessionTTL,
	})

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//使われていない端末の後始末
	go sessions.RunJanitor(ctx, time.Minute, workspaces.Remove)

	go func() {
		if err := srv.Start(addr); err != nil {
			log.Error("listen failed", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}

type stores struct {
	sessions     repo.StorageRepository
	clientErrors repo.ClientErrorRepository
	close        func()
}

// postgres ならクライアントエラーも DB に、それ以外はプロセス内に残す
func openStores(cfg config.Config, log *slog.Logger) (stores, error) {
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		gormDB, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return stores{}, err
		}
		if err := db.Migrate(gormDB); err != nil {
			return stores{}, err
		}
		log.Info("session storage", "store", "postgres")
		return stores{
			sessions:     infraRepo.NewStorageGormRepository(gormDB),
			clientErrors: infraRepo.NewClientErrorGormRepository(gormDB),
			close: func() {
				if sqlDB, err := gormDB.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	case config.SessionStoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return stores{}, err
		}
		log.Info("session storage", "store", "redis", "addr", cfg.RedisAddr)
		return stores{
			sessions:     infraRepo.NewStorageRedisRepository(rdb, cfg.SessionTTL),
			clientErrors: infraRepo.NewClientErrorMemoryRepository(0),
			close:        func() { _ = rdb.Close() },
		}, nil

	default:
		log.Info("session storage", "store", "memory")
		return stores{
			sessions:     infraRepo.NewStorageMemoryRepository(),
			clientErrors: infraRepo.NewClientErrorMemoryRepository(0),
			close:        func() {},
		}, nil
	}
}
