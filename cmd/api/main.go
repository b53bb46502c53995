package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/harentsoaR/tienda-ropa/internal/cache"
	"github.com/harentsoaR/tienda-ropa/internal/config"
	"github.com/harentsoaR/tienda-ropa/internal/handlers"
	"github.com/harentsoaR/tienda-ropa/internal/platform/logger"
	"github.com/harentsoaR/tienda-ropa/internal/services"
	"github.com/harentsoaR/tienda-ropa/internal/store"
)

func main() {
	foundEnv := config.LoadDotEnv()
	cfg := config.Load()

	logr, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logr.Sync()

	if !foundEnv {
		logr.Info("No .env file found, relying on environment variables.")
	}
	logr.Info("configuration loaded",
		"mongodb_uri", cfg.Mongo.URI,
		"mongo_database", cfg.Mongo.Database,
		"api_port", cfg.API.Port,
		"redis_addr", cfg.Redis.Addr,
		"jwt_configured", cfg.API.JWTSecret != "",
	)
	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	st, err := store.Connect(ctx, cfg.Mongo)
	if err != nil {
		logr.Fatal("Failed to connect to MongoDB", "error", err)
	}
	logr.Info("Successfully connected to MongoDB!")

	// --- Optional report cache ---
	var reportCache handlers.ReportCache
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logr.Warn("redis unavailable, report cache disabled", "error", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			reportCache = cache.NewReportCache(rdb, cfg.Redis.CacheTTL)
			logr.Info("report cache enabled", "ttl", cfg.Redis.CacheTTL.String())
		}
	}

	reporter := services.NewReporter(st.Sales, os.Stdout, logr)
	h := handlers.NewHandler(reporter, reportCache, st.Ping, logr)
	srv := &http.Server{
		Addr:    ":" + cfg.API.Port,
		Handler: handlers.NewRouter(h, cfg.API.AllowedOrigins, []byte(cfg.API.JWTSecret)),
	}

	go func() {
		logr.Info("Starting server", "port", cfg.API.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("HTTP server shutdown", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := st.Close(shutdownCtx); err != nil {
		logr.Warn("disconnect failed", "error", err)
	}
	logr.Info("connections closed")
}
