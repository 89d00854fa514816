// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import "errors"

var (
	// ErrHistoryDisabled is returned by history endpoints when no store is configured.
	ErrHistoryDisabled = errors.New("prediction history is disabled")

	// errBodyTooLarge is returned when a request body exceeds maxBodyBytes.
	errBodyTooLarge = errors.New("request body too large")
)
