// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/middleware"
	"github.com/tomtom215/cropwise/internal/models"
	"github.com/tomtom215/cropwise/internal/recommend"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// History lists recent recommendations, newest first.
//
// Query parameters:
//   - limit: number of records, 1-100 (default 20)
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeHistoryDisabled, ErrHistoryDisabled.Error(), nil)
		return
	}

	limit := getIntParam(r, "limit", defaultHistoryLimit)
	if limit < 1 || limit > maxHistoryLimit {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "limit must be between 1 and 100", nil)
		return
	}

	records, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to read history", err)
		return
	}
	total, err := h.history.Count(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to count history", err)
		return
	}
	if records == nil {
		records = []*history.Record{}
	}

	respondData(w, r, http.StatusOK, models.HistoryList{
		Records: records,
		Count:   len(records),
		Total:   total,
	})
}

// HistoryRecord returns one recorded recommendation by ID.
func (h *Handler) HistoryRecord(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeHistoryDisabled, ErrHistoryDisabled.Error(), nil)
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := h.history.Get(r.Context(), id)
	switch {
	case errors.Is(err, history.ErrNotFound):
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "History record not found", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to read history", err)
		return
	}

	respondData(w, r, http.StatusOK, rec)
}

// StatsResponse is the body of GET /api/v1/stats.
type StatsResponse struct {
	Engine    recommend.Stats            `json:"engine"`
	Endpoints []middleware.EndpointStats `json:"endpoints"`
	Uptime    string                     `json:"uptime"`
	Models    bool                       `json:"models_loaded"`
}

// Stats reports engine counters and recent per-endpoint latency.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Engine:    h.engine.Stats(),
		Endpoints: []middleware.EndpointStats{},
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Models:    h.engine.Ready(),
	}
	if h.perfMon != nil {
		resp.Endpoints = h.perfMon.GetStats()
	}
	respondData(w, r, http.StatusOK, resp)
}
