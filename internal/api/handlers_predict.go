// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"

	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/models"
	"github.com/tomtom215/cropwise/internal/recommend"
)

// Predict recommends crops for a soil type, season and market location.
//
// Request body: models.PredictRequest. Response data: models.PredictionView.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictRequest
	if err := decodeJSON(w, r, h.config.MaxBodyBytes, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	res, err := h.engine.Recommend(r.Context(), req.ToRecommendRequest(logging.RequestIDFromContext(r.Context())))
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("soil_type", sanitizeLogValue(req.SoilType)).
		Str("season", sanitizeLogValue(req.Season)).
		Str("suitable_crop", res.SuitableCrop).
		Str("most_profitable_crop", res.MostProfitableCrop).
		Bool("cache_hit", res.Metadata.CacheHit).
		Msg("Recommendation served")

	h.respondResult(w, r, res)
}

// PredictEnvironment recommends crops for caller-supplied soil and climate
// parameters, skipping the soil and season lookup.
func (h *Handler) PredictEnvironment(w http.ResponseWriter, r *http.Request) {
	var req models.EnvironmentPredictRequest
	if err := decodeJSON(w, r, h.config.MaxBodyBytes, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	res, err := h.engine.RecommendEnvironment(r.Context(), req.ToEnvironmentRequest(logging.RequestIDFromContext(r.Context())))
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("suitable_crop", res.SuitableCrop).
		Str("most_profitable_crop", res.MostProfitableCrop).
		Bool("cache_hit", res.Metadata.CacheHit).
		Msg("Environment recommendation served")

	h.respondResult(w, r, res)
}

// respondResult records res in history and writes the prediction view.
func (h *Handler) respondResult(w http.ResponseWriter, r *http.Request, res *recommend.Result) {
	if h.recorder != nil {
		h.recorder.RecordResult(res)
	}

	md := newMetadata(r)
	md.QueryTimeMS = res.Metadata.LatencyMS
	md.Cached = res.Metadata.CacheHit

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     models.NewPredictionView(res),
		Metadata: md,
	})
}

// ModelInfo describes the loaded models. 503 until a bundle is published.
func (h *Handler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.engine.Info()
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, info)
}

// SupportedValues lists the soil and season tables. It does not depend on
// the model and is available during startup.
func (h *Handler) SupportedValues(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, models.NewSupportedValues())
}

// Locations lists the states, districts, markets and commodities known to
// the price model.
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.engine.Locations()
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, locs)
}
