// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package models

import (
	"time"
)

// APIResponse is the envelope used by every JSON endpoint under /api/v1.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "success",
//	  "data": {"suitable_crop": "Rice", ...},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
//	}
//
//	{
//	  "status": "error",
//	  "error": {"code": "INVALID_CATEGORY", "message": "invalid soil_type \"Peat\": must be one of: Loamy, Clay, Sandy, Black"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and caching information for a response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the error body of an APIResponse.
//
// Error codes:
//   - VALIDATION_ERROR: malformed body or a field failed validation (400)
//   - INVALID_CATEGORY: unknown soil type or season (400)
//   - INVALID_ENVIRONMENT: raw parameter out of range (400)
//   - NOT_FOUND: history record does not exist (404)
//   - EMPTY_CANDIDATE_SET: no crop reached the suitability floor (422)
//   - RATE_LIMIT_EXCEEDED: too many requests (429)
//   - INTERNAL_ERROR: unexpected failure (500)
//   - MODEL_NOT_READY: no model bundle loaded yet (503)
//   - HISTORY_DISABLED: prediction history is turned off (503)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes used in APIError.Code.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidCategory    = "INVALID_CATEGORY"
	ErrCodeInvalidEnvironment = "INVALID_ENVIRONMENT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeEmptyCandidateSet  = "EMPTY_CANDIDATE_SET"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeModelNotReady      = "MODEL_NOT_READY"
	ErrCodeHistoryDisabled    = "HISTORY_DISABLED"
)
