// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package estimator

import (
	"fmt"

	"github.com/goccy/go-json"
)

// GradientBoostingRegressor evaluates a least-squares boosted tree ensemble:
//
//	y = Init + LearningRate * sum(tree_i(x))
type GradientBoostingRegressor struct {
	NumFeatures  int     `json:"n_features"`
	Init         float64 `json:"init"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

// Kind implements Regressor.
func (g *GradientBoostingRegressor) Kind() string { return KindGradientBoosting }

// Validate checks the learning rate and every stage.
func (g *GradientBoostingRegressor) Validate() error {
	if g.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive", ErrMalformedModel)
	}
	for i := range g.Trees {
		if err := g.Trees[i].Validate(g.NumFeatures, 1); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
	}
	return nil
}

// Predict implements Regressor.
func (g *GradientBoostingRegressor) Predict(x []float64) (float64, error) {
	if err := checkDims(x, g.NumFeatures); err != nil {
		return 0, err
	}

	var sum float64
	for i := range g.Trees {
		v, err := g.Trees[i].scalar(x)
		if err != nil {
			return 0, fmt.Errorf("stage %d: %w", i, err)
		}
		sum += v
	}
	return checkFinite(g.Init + g.LearningRate*sum)
}

// MarshalJSON adds the type discriminator.
func (g GradientBoostingRegressor) MarshalJSON() ([]byte, error) {
	type alias GradientBoostingRegressor
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{KindGradientBoosting, alias(g)})
}
