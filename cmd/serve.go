package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rbf-calc/config"
	httpLayer "rbf-calc/http"
	"rbf-calc/repository"
	"rbf-calc/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newCache(cfg config.Config) (repository.CacheRepository, func()) {
	if cfg.Cache.RedisAddr == "" {
		slog.Info("no redis address configured, using in-memory cache")
		return repository.NewMockCache(), func() {}
	}

	cache := repository.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.TTL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		slog.Warn("redis unreachable, results will be recomputed", "addr", cfg.Cache.RedisAddr, "error", err)
	}
	return cache, func() {
		if err := cache.Close(); err != nil {
			slog.Warn("error closing redis client", "error", err)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}

	cache, closeCache := newCache(cfg)
	defer closeCache()

	calculatorService := service.NewCalculatorService(
		repository.NewCalculationRepositoryMemory(service.RecentCalculations),
		cache,
		service.Location{Origin: cfg.Share.Origin, Path: cfg.Share.Path},
	)
	explanationService := service.NewExplanationService(cfg.OpenAIKey)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
	defer rateLimiter.Stop()

	handler := httpLayer.NewRouter(
		slog.Default(),
		rateLimiter,
		httpLayer.NewCalculatorHandler(calculatorService),
		httpLayer.NewExplanationHandler(calculatorService, explanationService),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("API listening", "addr", cfg.Server.Addr, "explanations", explanationService.Enabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("error starting server", "error", err)
		return err
	case <-quit:
		slog.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("error during server shutdown", "error", err)
		return err
	}

	slog.Info("server exited")
	return nil
}
