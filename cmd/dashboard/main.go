package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/water-monitor-dashboard/internal/adapter/api"
	"github.com/couchcryptid/water-monitor-dashboard/internal/adapter/web"
	"github.com/couchcryptid/water-monitor-dashboard/internal/config"
	"github.com/couchcryptid/water-monitor-dashboard/internal/dashboard"
	"github.com/couchcryptid/water-monitor-dashboard/internal/observability"
	"github.com/couchcryptid/water-monitor-dashboard/internal/session"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		logger.Error("failed to open session file", "path", cfg.SessionFile, "error", err)
		os.Exit(1)
	}

	// Requests served by the web adapter navigate through their own scoped
	// navigator; this one only sees navigation made outside a request.
	redirects := session.NewRedirects()
	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, store, redirects, metrics, logger)

	dash := dashboard.New(client, store, redirects, dashboard.Options{
		Mode:    dashboard.FallbackMode(cfg.FallbackMode),
		Metrics: metrics,
		Logger:  logger,
	})
	logger.Info("dashboard configured",
		"api_base_url", cfg.APIBaseURL,
		"fallback_mode", cfg.FallbackMode,
		"session_file", store.Path(),
	)

	srv := web.NewServer(cfg.HTTPAddr, dash, client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
