// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cropwise/internal/api"
	"github.com/tomtom215/cropwise/internal/config"
	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/metrics"
	"github.com/tomtom215/cropwise/internal/middleware"
	"github.com/tomtom215/cropwise/internal/recommend"
	"github.com/tomtom215/cropwise/internal/supervisor"
	"github.com/tomtom215/cropwise/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = api.DefaultVersion

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Caller:  cfg.Logging.Caller,
		Service: "cropwise",
		Output:  os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("config_file", config.ConfigFile()).
		Msg("Starting Cropwise")

	source, loader, err := bundleSource(&cfg.Recommend)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to configure model source")
	}
	handle := recommend.NewModelHandle(source)
	metrics.SetModelLoaded(false)

	engine, err := recommend.NewEngine(engineConfig(&cfg.Recommend), handle, logging.WithComponent("engine"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	hist, err := initHistory(&cfg.History, logging.WithComponent("history"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize prediction history")
	}
	defer func() {
		if err := hist.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing prediction history")
		}
	}()
	if hist == nil {
		logging.Info().Msg("Prediction history disabled (HISTORY_ENABLED=false)")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: CORS allows any origin (CORS_ORIGINS=*)")
		logging.Warn().Msg("  Restrict it in production:")
		logging.Warn().Msg("    CORS_ORIGINS=https://yourdomain.com")
		logging.Warn().Msg("============================================================")
	}

	perfMon := middleware.NewPerformanceMonitor(1000)
	historyReader, recorder := hist.apiDeps()
	handler := api.NewHandler(engine, historyReader, recorder, perfMon, api.HandlerConfig{Version: version})
	router := api.NewRouter(handler, middlewareConfig(&cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddModelService(services.NewBundleLoaderService(
		handle, loader, cfg.Recommend.LoadRetryInterval, logging.WithComponent("model")))
	if hist != nil {
		tree.AddHistoryService(services.NewHistoryRecorderService(hist.recorder, logging.WithComponent("history")))
		tree.AddHistoryService(services.NewHistoryGCService(hist.store, cfg.History.GCInterval, logging.WithComponent("history")))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logging.WithComponent("api")))

	if path := config.ConfigFile(); path != "" {
		if err := config.WatchConfigFile(path, reloadLogLevel); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Str("model_source", source).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// errCh delivers exactly one value and is never closed.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	stop()

	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // report is best-effort
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Cropwise stopped")
}

// reloadLogLevel re-reads configuration after the watched file changes.
// Only the log level is applied live.
func reloadLogLevel() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Warn().Err(err).Msg("Ignoring invalid config reload")
		return
	}
	if cfg.Logging.Level != logging.GetLevel().String() {
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level reloaded")
	}
}
