package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"spendchart/internal/backend"
	"spendchart/internal/cache"
	"spendchart/internal/cli"
	"spendchart/internal/core"
	apphttp "spendchart/internal/http"
	"spendchart/internal/log"
	"spendchart/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(nil, log.ComponentApp))
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	categories, err := cfg.CategorySet()
	if err != nil {
		logger.Error("Invalid category set", log.FieldError, err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	svcCfg := services.ExpenseServiceConfig{
		Categories:  categories,
		TrendDays:   cfg.TrendDays,
		RecentLimit: cfg.RecentLimit,
		Publisher:   result.Publisher,
	}
	if cfg.ChartCacheTTL > 0 {
		svcCfg.ChartCache = cache.NewTTLCache[core.ChartData](cfg.ChartCacheTTL, 2*cfg.ChartCacheTTL)
		logger.Info("Chart cache enabled", "ttl", cfg.ChartCacheTTL)
	}
	svc := services.NewExpenseService(result.Store, svcCfg)

	srv := apphttp.NewServer(apphttp.ServerConfig{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		Logger:             logger,
	}, svc)

	ctx, done := cli.GracefulShutdown(context.Background(), logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting spendchart server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events", result.Publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		_ = result.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
