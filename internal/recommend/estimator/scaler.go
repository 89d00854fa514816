// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package estimator

import "fmt"

// StandardScaler standardizes features using the mean and scale captured at
// training time.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// NumFeatures returns the number of features the scaler was fit on.
func (s *StandardScaler) NumFeatures() int {
	return len(s.Mean)
}

// Validate checks that mean and scale line up.
func (s *StandardScaler) Validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("%w: scaler has no features", ErrMalformedModel)
	}
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("%w: scaler mean has %d entries, scale has %d",
			ErrMalformedModel, len(s.Mean), len(s.Scale))
	}
	return nil
}

// Transform returns a new standardized vector. A zero scale is treated as 1,
// which matches how constant features are handled during fitting.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := checkDims(x, len(s.Mean)); err != nil {
		return nil, err
	}
	if len(s.Scale) != len(s.Mean) {
		return nil, fmt.Errorf("%w: scaler shape", ErrMalformedModel)
	}

	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}
