// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package models defines the JSON request and response types of the HTTP API.
//
// The engine in internal/recommend works on raw 0-1 scores and unrounded
// prices. This package owns the presentation rules:
//   - suitability and combined scores become percentages rounded to 2 decimals
//   - prices are rounded to 2 decimals, and a missing price is null
//   - the ranked list is published under the "top_3" key even when top_k differs
//
// Request bodies carry validator/v10 tags and are checked with
// internal/validation before they reach the engine.
package models
