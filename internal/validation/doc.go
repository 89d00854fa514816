// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package validation provides struct validation for API requests using
// go-playground/validator v10.
//
// A single validator instance is created lazily and shared; it caches
// struct metadata, so reuse is cheap. Field errors are reported under the
// field's JSON name so the messages line up with the request body the
// client sent:
//
//	type PredictRequest struct {
//	    SoilType string   `json:"soil_type" validate:"required,notblank,max=32"`
//	    TopK     int      `json:"top_k" validate:"omitempty,min=1,max=50"`
//	    PriceW   *float64 `json:"price_weight" validate:"omitempty,gte=0"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    // apiErr.Code == "VALIDATION_ERROR"
//	    // apiErr.Message == "soil_type is required"
//	}
//
// Custom tags:
//   - notblank: string must contain a non-whitespace character
package validation
