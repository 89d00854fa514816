// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package main

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cropwise/internal/api"
	"github.com/tomtom215/cropwise/internal/config"
	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/recommend"
	"github.com/tomtom215/cropwise/internal/recommend/storage"
	"github.com/tomtom215/cropwise/internal/supervisor/services"
)

// engineConfig maps the flat koanf settings onto the engine's config.
func engineConfig(rc *config.RecommendConfig) *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Weights = recommend.Weights{Price: rc.PriceWeight, Suitability: rc.SuitabilityWeight}
	cfg.SuitabilityFloor = rc.SuitabilityFloor
	cfg.Limits.DefaultK = rc.TopK
	cfg.Limits.MaxK = rc.MaxK
	cfg.Cache.Enabled = rc.CacheEnabled
	cfg.Cache.TTL = rc.CacheTTL
	cfg.Cache.MaxEntries = rc.CacheMaxEntries
	return cfg
}

// bundleSource picks the loader for the configured model source. A
// standalone file wins over the versioned store.
func bundleSource(rc *config.RecommendConfig) (string, services.BundleLoader, error) {
	if rc.ModelPath != "" {
		return rc.ModelPath, services.FileBundleLoader(rc.ModelPath), nil
	}
	store, err := storage.NewStore(rc.ModelStoreDir)
	if err != nil {
		return "", nil, fmt.Errorf("open model store: %w", err)
	}
	source := fmt.Sprintf("%s/%s", rc.ModelStoreDir, rc.ModelName)
	return source, services.StoreBundleLoader(store, rc.ModelName), nil
}

// historyComponents is the optional prediction history pipeline.
type historyComponents struct {
	store     *history.Store
	bus       *gochannel.GoChannel
	publisher *history.Publisher
	recorder  *history.Recorder
}

func recorderConfig(hc *config.HistoryConfig) history.RecorderConfig {
	cfg := history.DefaultRecorderConfig()
	cfg.RetryMaxRetries = hc.MaxRetries
	cfg.RetryInitialInterval = hc.InitialInterval
	cfg.Breaker.FailureThreshold = hc.BreakerThreshold
	cfg.Breaker.Timeout = hc.BreakerTimeout
	return cfg
}

// initHistory opens the store and wires the bus. It returns nil when
// history is disabled.
func initHistory(hc *config.HistoryConfig, logger zerolog.Logger) (*historyComponents, error) {
	if !hc.Enabled {
		return nil, nil
	}

	store, err := history.Open(history.StoreConfig{
		Path:       hc.Path,
		InMemory:   hc.InMemory,
		Retention:  hc.Retention,
		SyncWrites: hc.SyncWrites,
	})
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger("watermill"))
	bus := history.NewBus(wmLogger)

	recorder, err := history.NewRecorder(recorderConfig(hc), bus, store, wmLogger, logger)
	if err != nil {
		_ = store.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("create history recorder: %w", err)
	}

	return &historyComponents{
		store:     store,
		bus:       bus,
		publisher: history.NewPublisher(bus, logger),
		recorder:  recorder,
	}, nil
}

// apiDeps returns the handler's history interfaces. Disabled history must
// reach the handler as untyped nils.
func (h *historyComponents) apiDeps() (api.HistoryReader, api.ResultRecorder) {
	if h == nil {
		return nil, nil
	}
	return h.store, h.publisher
}

// Close stops the bus and the store. Safe on a nil receiver.
func (h *historyComponents) Close() error {
	if h == nil {
		return nil
	}
	busErr := h.bus.Close()
	if err := h.store.Close(); err != nil {
		return err
	}
	return busErr
}

func middlewareConfig(sc *config.SecurityConfig) *api.ChiMiddlewareConfig {
	cfg := api.DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = sc.CORSOrigins
	cfg.RateLimitRequests = sc.RateLimitReqs
	cfg.RateLimitWindow = sc.RateLimitWindow
	cfg.RateLimitDisabled = sc.RateLimitDisabled
	return cfg
}
