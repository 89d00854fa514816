// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/models"
	"github.com/tomtom215/cropwise/internal/recommend"
	"github.com/tomtom215/cropwise/internal/validation"
)

// sanitizeLogValue escapes control characters so client input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with an ETag. Responses are never
// cached by intermediaries since they depend on a model that can be
// published after start.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData wraps data in a success envelope.
func respondData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: newMetadata(r),
	})
}

func newMetadata(r *http.Request) models.Metadata {
	md := models.Metadata{Timestamp: time.Now().UTC()}
	if r != nil {
		md.RequestID = logging.RequestIDFromContext(r.Context())
	}
	return md
}

// generateETag creates a weak validator from data using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondError sends an error envelope. err, when set, is logged and never
// shown to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondErrorDetails(w, r, status, &models.APIError{Code: code, Message: message}, err)
}

func respondErrorDetails(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		logger := logging.Logger()
		if r != nil {
			logger = *logging.Ctx(r.Context())
		}
		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("code", sanitizeLogValue(apiErr.Code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: newMetadata(r),
		Error:    apiErr,
	})
}

// respondEngineError maps engine and store errors onto HTTP responses.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var catErr *recommend.CategoryError
	var envErr *recommend.EnvironmentError

	switch {
	case errors.As(err, &catErr):
		respondErrorDetails(w, r, http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeInvalidCategory,
			Message: catErr.Error(),
			Details: map[string]interface{}{
				"field":   catErr.Field,
				"value":   catErr.Value,
				"allowed": catErr.Allowed,
			},
		}, nil)
	case errors.As(err, &envErr):
		respondErrorDetails(w, r, http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeInvalidEnvironment,
			Message: envErr.Error(),
			Details: map[string]interface{}{
				"field": envErr.Field,
				"value": envErr.Value,
				"min":   envErr.Min,
				"max":   envErr.Max,
			},
		}, nil)
	case errors.Is(err, recommend.ErrInvalidCategory):
		respondError(w, r, http.StatusBadRequest, models.ErrCodeInvalidCategory, err.Error(), nil)
	case errors.Is(err, recommend.ErrInvalidEnvironment):
		respondError(w, r, http.StatusBadRequest, models.ErrCodeInvalidEnvironment, err.Error(), nil)
	case errors.Is(err, recommend.ErrInvalidWeights):
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, recommend.ErrEmptyCandidateSet):
		respondError(w, r, http.StatusUnprocessableEntity, models.ErrCodeEmptyCandidateSet,
			"No crop is suitable for the given conditions", nil)
	case errors.Is(err, recommend.ErrModelNotReady):
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeModelNotReady,
			"Models are not loaded yet", err)
	default:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal,
			"Failed to compute recommendation", err)
	}
}

// validateRequest validates a struct using go-playground/validator.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeJSON reads a bounded JSON body into dst. Unknown fields are
// ignored so older clients keep working.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return errors.New("request body is empty")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// respondDecodeError reports a body that could not be decoded.
func respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		respondError(w, r, http.StatusRequestEntityTooLarge, models.ErrCodeValidation, "Request body too large", nil)
		return
	}
	respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request body", err)
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}
