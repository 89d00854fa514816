// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/middleware"
	"github.com/tomtom215/cropwise/internal/recommend"
)

// DefaultVersion is reported by /health when none is configured.
const DefaultVersion = "2.0.0"

// defaultMaxBodyBytes bounds prediction request bodies.
const defaultMaxBodyBytes = 64 << 10

// HistoryReader is the read side of the prediction history store.
type HistoryReader interface {
	Get(ctx context.Context, id string) (*history.Record, error)
	Recent(ctx context.Context, limit int) ([]*history.Record, error)
	Count(ctx context.Context) (int, error)
}

// ResultRecorder receives every successful recommendation. Implementations
// must not block the request and must not fail it.
type ResultRecorder interface {
	RecordResult(res *recommend.Result)
}

// HandlerConfig holds the static values handlers report.
type HandlerConfig struct {
	Version      string
	MaxBodyBytes int64
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response, decode and error mapping helpers
//   - handlers_health.go: health and readiness endpoints
//   - handlers_predict.go: prediction and model metadata endpoints
//   - handlers_history.go: history and stats endpoints
type Handler struct {
	engine    *recommend.Engine
	history   HistoryReader
	recorder  ResultRecorder
	perfMon   *middleware.PerformanceMonitor
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a handler around engine. history and recorder may be
// nil when prediction history is disabled.
func NewHandler(engine *recommend.Engine, historyReader HistoryReader, recorder ResultRecorder, perfMon *middleware.PerformanceMonitor, cfg HandlerConfig) *Handler {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{
		engine:    engine,
		history:   historyReader,
		recorder:  recorder,
		perfMon:   perfMon,
		config:    cfg,
		startTime: time.Now(),
	}
}
