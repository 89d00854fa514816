// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Use errors.Is to classify.
var (
	// ErrInvalidCategory is returned for an unknown soil type or season.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrModelNotReady is returned while no model bundle is published.
	ErrModelNotReady = errors.New("model not ready")

	// ErrEmptyCandidateSet is returned when no crop reaches the suitability floor.
	ErrEmptyCandidateSet = errors.New("no crop reached the suitability floor")

	// ErrInvalidEnvironment is returned when a raw environment parameter is out of range.
	ErrInvalidEnvironment = errors.New("environment parameter out of range")

	// ErrInvalidWeights is returned for negative or non-finite scoring weights.
	ErrInvalidWeights = errors.New("invalid scoring weights")

	// ErrInvalidBundle is returned when bundle parts are inconsistent.
	ErrInvalidBundle = errors.New("invalid model bundle")
)

// CategoryError describes an unknown categorical input.
type CategoryError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be one of: %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// Unwrap returns ErrInvalidCategory.
func (e *CategoryError) Unwrap() error {
	return ErrInvalidCategory
}

// EnvironmentError describes an out-of-range environment parameter.
type EnvironmentError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("%s should be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value)
}

// Unwrap returns ErrInvalidEnvironment.
func (e *EnvironmentError) Unwrap() error {
	return ErrInvalidEnvironment
}
