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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/callminder/callminder/internal/config"
	"github.com/callminder/callminder/internal/domain"
	"github.com/callminder/callminder/internal/handler"
	"github.com/callminder/callminder/internal/health"
	"github.com/callminder/callminder/internal/infra/dispatch"
	"github.com/callminder/callminder/internal/infra/repository"
	"github.com/callminder/callminder/internal/observability/logging"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		return 1
	}

	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		repo        domain.ReminderRepository
		redisClient *redis.Client
	)
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect to redis",
				slog.String("addr", cfg.Redis.Addr),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()
		repo = repository.NewRedisRepository(redisClient)
	default:
		repo = repository.NewMemoryRepository()
	}

	var caller dispatch.Caller
	if cfg.Twilio.Enabled() {
		caller = dispatch.NewTwilioCaller(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
	} else {
		slog.Info("twilio not configured, using simulated caller")
		caller = dispatch.NewSimulatedCaller()
	}

	dispatcher := dispatch.NewDispatcher(repo, caller)
	if err := dispatcher.Start(ctx, cfg.Dispatch.Interval); err != nil {
		slog.Error("failed to start dispatcher", slog.String("error", err.Error()))
		return 1
	}
	defer dispatcher.Stop()

	checker := health.NewChecker(redisClient, version)

	router := gin.Default()
	router.GET("/health", checker.ReadyHandler())
	router.GET("/health/live", checker.LiveHandler())
	router.GET("/health/ready", checker.ReadyHandler())
	handler.NewReminderHandler(repo).Register(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("reminder service listening",
			slog.String("addr", srv.Addr),
			slog.String("store", cfg.Store.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("server error", slog.String("error", err.Error()))
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", slog.String("error", err.Error()))
		return 1
	}

	slog.Info("server stopped")
	return 0
}
