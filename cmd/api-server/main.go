package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/router"
	"yamdb/internal/logger"
	"yamdb/internal/mailer"
)

func main() {
	// Load config (.env first, then the environment)
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.MigrationsOnStart {
		if err := database.Migrate(cfg.DatabaseURL, database.Up, logger); err != nil {
			logger.Error("migrations_failed", "error", err.Error())
			os.Exit(1)
		}
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err.Error())
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	mail, err := mailer.New(cfg, logger)
	if err != nil {
		logger.Error("mailer_setup_failed", "error", err.Error())
		os.Exit(1)
	}

	services, err := router.NewServices(cfg, db, mail, logger)
	if err != nil {
		logger.Error("service_setup_failed", "error", err.Error())
		os.Exit(1)
	}

	limiter, closeLimiter, err := authLimiter(cfg)
	if err != nil {
		logger.Error("rate_limiter_setup_failed", "error", err.Error())
		os.Exit(1)
	}
	defer closeLimiter()

	engine, err := router.New(cfg, db, services, logger, router.Options{AuthLimiter: limiter})
	if err != nil {
		logger.Error("router_setup_failed", "error", err.Error())
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_api_server", "addr", cfg.Addr(), "prefix", cfg.APIPrefix, "env", cfg.GoEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server_shutdown_failed", "error", err.Error())
			return
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}
}

// authLimiter picks the shared Redis window when REDIS_URL is set and a
// per-process token bucket otherwise.
func authLimiter(cfg *config.Config) (middleware.Limiter, func(), error) {
	if cfg.RedisURL == "" {
		return middleware.NewLocalLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}

	limit := int(cfg.AuthRateLimit * cfg.AuthRateWindow.Seconds())
	if limit < cfg.AuthRateBurst {
		limit = cfg.AuthRateBurst
	}
	return middleware.NewRedisLimiter(client, "yamdb:ratelimit:auth", limit, cfg.AuthRateWindow), func() { client.Close() }, nil
}
