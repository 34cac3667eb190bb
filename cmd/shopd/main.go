package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/retail-manager/internal/httpx"
	"github.com/jcmexdev/retail-manager/internal/pkg/cache"
	"github.com/jcmexdev/retail-manager/internal/pkg/telemetry"
	"github.com/jcmexdev/retail-manager/internal/store/sqlite"
)

func main() {
	telemetry.InitLogger(getEnv("LOG_LEVEL", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPath := getEnv("SHOP_DB_PATH", "./data/shop.db")
	db, err := sqlite.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis is optional: without REDIS_ADDR product reads go straight to
	// the database.
	var productCache cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		productCache = cache.NewRedisCache(redisAddr, "shop")
		slog.Info("product cache enabled", "redis_addr", redisAddr)
	}

	handler := httpx.NewHandler(db.Orders, db.Products, db.Customers, db.Categories, db.Payments, productCache)

	srv := &http.Server{
		Addr:    ":" + getEnv("PORT", "8080"),
		Handler: httpx.NewRouter(handler),
	}

	go func() {
		slog.Info("retail manager running", "addr", srv.Addr, "db", dbPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
