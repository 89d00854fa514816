// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package models

import (
	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/recommend"
)

// HealthResponse is returned by GET /health. It is always served with
// status 200 so that load balancers can tell "up but not ready" apart
// from "down".
type HealthResponse struct {
	Status         string  `json:"status"` // "healthy" or "unhealthy"
	ModelsLoaded   bool    `json:"models_loaded"`
	Version        string  `json:"version"`
	ModelPath      string  `json:"model_path"`
	ModelLoadError *string `json:"model_load_error"`
	HistoryEnabled bool    `json:"history_enabled"`
	Uptime         string  `json:"uptime,omitempty"`
}

// SupportedValues is returned by GET /supported-values.
type SupportedValues struct {
	SoilTypes map[string]recommend.SoilProfile   `json:"soil_types"`
	Seasons   map[string]recommend.SeasonProfile `json:"seasons"`
}

// NewSupportedValues builds the response from the built-in tables.
func NewSupportedValues() SupportedValues {
	return SupportedValues{
		SoilTypes: recommend.SoilProfiles(),
		Seasons:   recommend.SeasonProfiles(),
	}
}

// HistoryList is returned by GET /api/v1/history.
type HistoryList struct {
	Records []*history.Record `json:"records"`
	Count   int              `json:"count"`
	Total   int              `json:"total"`
}
