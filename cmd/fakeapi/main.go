package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/fakeapi"
	"storefront/internal/logging"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log := logging.New(os.Getenv("LOG_LEVEL"))

	srv := fakeapi.New(fakeapi.Config{
		JWTSecret: os.Getenv("JWT_SECRET"),
		Logger:    log,
	})
	if err := srv.SeedDemoData(); err != nil {
		log.Error("seed failed", "err", err)
		os.Exit(1)
	}

	addr := ":8081"
	if v := os.Getenv("FAKEAPI_PORT"); v != "" {
		if v[0] != ':' {
			addr = ":" + v
		} else {
			addr = v
		}
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("fake api listening", "addr", addr,
			"adminEmail", fakeapi.DemoAdminEmail, "customerEmail", fakeapi.DemoCustomerEmail)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", "err", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
