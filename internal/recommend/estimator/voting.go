// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package estimator

import (
	"fmt"

	"github.com/goccy/go-json"
)

// VotingRegressor averages the predictions of its estimators. Weights is
// optional; when empty every estimator counts equally.
type VotingRegressor struct {
	Estimators []Regressor
	Weights    []float64
}

// Kind implements Regressor.
func (v *VotingRegressor) Kind() string { return KindVoting }

// Validate checks the weight vector against the estimator list.
func (v *VotingRegressor) Validate() error {
	if len(v.Estimators) == 0 {
		return fmt.Errorf("%w: voting regressor has no estimators", ErrMalformedModel)
	}
	if len(v.Weights) == 0 {
		return nil
	}
	if len(v.Weights) != len(v.Estimators) {
		return fmt.Errorf("%w: %d weights for %d estimators", ErrMalformedModel, len(v.Weights), len(v.Estimators))
	}
	var total float64
	for _, w := range v.Weights {
		if w < 0 {
			return fmt.Errorf("%w: negative voting weight", ErrMalformedModel)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: voting weights sum to zero", ErrMalformedModel)
	}
	return nil
}

// Predict implements Regressor. Any estimator failure fails the whole vote.
func (v *VotingRegressor) Predict(x []float64) (float64, error) {
	if len(v.Estimators) == 0 {
		return 0, fmt.Errorf("%w: voting regressor has no estimators", ErrMalformedModel)
	}

	var sum, total float64
	for i, est := range v.Estimators {
		y, err := est.Predict(x)
		if err != nil {
			return 0, fmt.Errorf("estimator %d (%s): %w", i, est.Kind(), err)
		}
		w := 1.0
		if len(v.Weights) > 0 {
			w = v.Weights[i]
		}
		sum += w * y
		total += w
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: voting weights sum to zero", ErrMalformedModel)
	}
	return checkFinite(sum / total)
}

// MarshalJSON adds the type discriminator.
func (v VotingRegressor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string      `json:"type"`
		Estimators []Regressor `json:"estimators"`
		Weights    []float64   `json:"weights,omitempty"`
	}{KindVoting, v.Estimators, v.Weights})
}
