// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package estimator

import (
	"fmt"

	"github.com/goccy/go-json"
)

// RidgeRegressor is a fitted linear model. The regularization strength only
// matters at training time, so only coefficients are kept.
type RidgeRegressor struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// Kind implements Regressor.
func (r *RidgeRegressor) Kind() string { return KindRidge }

// Validate requires at least one coefficient.
func (r *RidgeRegressor) Validate() error {
	if len(r.Coef) == 0 {
		return fmt.Errorf("%w: ridge has no coefficients", ErrMalformedModel)
	}
	return nil
}

// Predict implements Regressor.
func (r *RidgeRegressor) Predict(x []float64) (float64, error) {
	if err := checkDims(x, len(r.Coef)); err != nil {
		return 0, err
	}
	y := r.Intercept
	for i, c := range r.Coef {
		y += c * x[i]
	}
	return checkFinite(y)
}

// MarshalJSON adds the type discriminator.
func (r RidgeRegressor) MarshalJSON() ([]byte, error) {
	type alias RidgeRegressor
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{KindRidge, alias(r)})
}
