// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package estimator

import (
	"fmt"

	"github.com/goccy/go-json"
)

// ForestClassifier is a random forest classifier. The probability for a class
// is the mean over trees of that class's share in the reached leaf.
type ForestClassifier struct {
	Classes     int    `json:"n_classes"`
	NumFeatures int    `json:"n_features"`
	Trees       []Tree `json:"trees"`
}

// Kind implements Classifier.
func (f *ForestClassifier) Kind() string { return KindRandomForest }

// NumClasses implements Classifier.
func (f *ForestClassifier) NumClasses() int { return f.Classes }

// Validate checks every tree against the declared shape.
func (f *ForestClassifier) Validate() error {
	if f.Classes <= 0 {
		return fmt.Errorf("%w: classifier has no classes", ErrMalformedModel)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("%w: classifier has no trees", ErrMalformedModel)
	}
	for i := range f.Trees {
		if err := f.Trees[i].Validate(f.NumFeatures, f.Classes); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// PredictProba implements Classifier.
func (f *ForestClassifier) PredictProba(x []float64) ([]float64, error) {
	if err := checkDims(x, f.NumFeatures); err != nil {
		return nil, err
	}
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("%w: classifier has no trees", ErrMalformedModel)
	}

	proba := make([]float64, f.Classes)
	for i := range f.Trees {
		dist, err := f.Trees[i].leaf(x)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		if len(dist) != f.Classes {
			return nil, fmt.Errorf("%w: tree %d leaf has %d classes", ErrMalformedModel, i, len(dist))
		}

		var total float64
		for _, v := range dist {
			total += v
		}
		if total <= 0 {
			continue
		}
		for c, v := range dist {
			proba[c] += v / total
		}
	}

	n := float64(len(f.Trees))
	for c := range proba {
		proba[c] /= n
	}
	return proba, nil
}

// MarshalJSON adds the type discriminator.
func (f ForestClassifier) MarshalJSON() ([]byte, error) {
	type alias ForestClassifier
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{KindRandomForest, alias(f)})
}

// ForestRegressor averages the leaf values of its trees.
type ForestRegressor struct {
	NumFeatures int    `json:"n_features"`
	Trees       []Tree `json:"trees"`
}

// Kind implements Regressor.
func (f *ForestRegressor) Kind() string { return KindRandomForest }

// Validate checks every tree.
func (f *ForestRegressor) Validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("%w: regressor has no trees", ErrMalformedModel)
	}
	for i := range f.Trees {
		if err := f.Trees[i].Validate(f.NumFeatures, 1); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// Predict implements Regressor.
func (f *ForestRegressor) Predict(x []float64) (float64, error) {
	if err := checkDims(x, f.NumFeatures); err != nil {
		return 0, err
	}
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("%w: regressor has no trees", ErrMalformedModel)
	}

	var sum float64
	for i := range f.Trees {
		v, err := f.Trees[i].scalar(x)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return checkFinite(sum / float64(len(f.Trees)))
}

// MarshalJSON adds the type discriminator.
func (f ForestRegressor) MarshalJSON() ([]byte, error) {
	type alias ForestRegressor
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{KindRandomForest, alias(f)})
}
