// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cropwise/internal/models"
)

// Health reports whether models are loaded. It always answers 200 so load
// balancers can tell a starting service from a dead one; use HealthReady
// to gate traffic.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	handle := h.engine.Handle()
	loaded := handle.Ready()

	status := "healthy"
	if !loaded {
		status = "unhealthy"
	}

	var loadErr *string
	if msg := handle.LoadError(); msg != "" {
		loadErr = &msg
	}

	respondData(w, r, http.StatusOK, models.HealthResponse{
		Status:         status,
		ModelsLoaded:   loaded,
		Version:        h.config.Version,
		ModelPath:      handle.Source(),
		ModelLoadError: loadErr,
		HistoryEnabled: h.history != nil,
		Uptime:         time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HealthLive is the liveness probe. The process is alive if it can answer.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady is the readiness probe: 200 once a model bundle is
// published, 503 before.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.engine.Ready()

	status := "ready"
	code := http.StatusOK
	if !ready {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	respondData(w, r, code, map[string]interface{}{
		"status":        status,
		"models_loaded": ready,
	})
}
