// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package estimator

import (
	"errors"
	"fmt"
	"math"
)

// Model kinds used as the JSON "type" discriminator.
const (
	KindRandomForest     = "random_forest"
	KindGradientBoosting = "gradient_boosting"
	KindRidge            = "ridge"
	KindVoting           = "voting"
)

// Errors returned by model evaluation.
var (
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	ErrMalformedModel    = errors.New("malformed model")
	ErrNonFinite         = errors.New("non-finite model output")
)

// Classifier produces a probability per known class.
type Classifier interface {
	// PredictProba returns one probability per class, in class order.
	PredictProba(x []float64) ([]float64, error)

	// NumClasses returns the size of the class set.
	NumClasses() int

	// Kind returns the model type name.
	Kind() string
}

// Regressor produces a single numeric prediction.
type Regressor interface {
	Predict(x []float64) (float64, error)
	Kind() string
}

func checkDims(x []float64, want int) error {
	if want > 0 && len(x) != want {
		return fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, len(x), want)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: feature %d is %v", ErrNonFinite, i, v)
		}
	}
	return nil
}

func checkFinite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}
