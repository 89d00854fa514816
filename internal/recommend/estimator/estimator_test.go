// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package estimator

import (
	"errors"
	"math"
	"testing"

	"github.com/goccy/go-json"
)

const tol = 1e-9

// stump splits on feature 0 at the threshold and returns left or right.
func stump(threshold float64, left, right []float64) Tree {
	return Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{threshold, -2, -2},
		Value:         [][]float64{make([]float64, len(left)), left, right},
	}
}

func leafTree(value ...float64) Tree {
	return Tree{
		ChildrenLeft:  []int{-1},
		ChildrenRight: []int{-1},
		Feature:       []int{-2},
		Threshold:     []float64{-2},
		Value:         [][]float64{value},
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < tol
}

func TestStandardScaler_Transform(t *testing.T) {
	s := &StandardScaler{Mean: []float64{10, 0, 5}, Scale: []float64{2, 0, 5}}

	got, err := s.Transform([]float64{14, 3, 0})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	want := []float64{2, 3, -1}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Errorf("Transform()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	t.Run("dimension mismatch", func(t *testing.T) {
		if _, err := s.Transform([]float64{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("Transform() error = %v, want ErrDimensionMismatch", err)
		}
	})

	t.Run("nan input", func(t *testing.T) {
		if _, err := s.Transform([]float64{math.NaN(), 0, 0}); !errors.Is(err, ErrNonFinite) {
			t.Errorf("Transform() error = %v, want ErrNonFinite", err)
		}
	})

	t.Run("validate shape", func(t *testing.T) {
		bad := &StandardScaler{Mean: []float64{1, 2}, Scale: []float64{1}}
		if err := bad.Validate(); !errors.Is(err, ErrMalformedModel) {
			t.Errorf("Validate() error = %v, want ErrMalformedModel", err)
		}
	})
}

func TestForestClassifier_PredictProba(t *testing.T) {
	f := &ForestClassifier{
		Classes:     2,
		NumFeatures: 1,
		Trees: []Tree{
			stump(0.5, []float64{3, 1}, []float64{0, 4}),
			leafTree(0.5, 0.5),
		},
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name string
		x    float64
		want []float64
	}{
		{"left branch", 0.2, []float64{(0.75 + 0.5) / 2, (0.25 + 0.5) / 2}},
		{"threshold goes left", 0.5, []float64{(0.75 + 0.5) / 2, (0.25 + 0.5) / 2}},
		{"right branch", 0.9, []float64{0.25, 0.75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.PredictProba([]float64{tt.x})
			if err != nil {
				t.Fatalf("PredictProba() error = %v", err)
			}
			for i := range tt.want {
				if !approx(got[i], tt.want[i]) {
					t.Errorf("PredictProba()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTree_ValidateRejectsBackReference(t *testing.T) {
	tr := Tree{
		ChildrenLeft:  []int{1, 0, -1},
		ChildrenRight: []int{2, 2, -1},
		Feature:       []int{0, 0, -2},
		Threshold:     []float64{0, 0, -2},
		Value:         [][]float64{{1}, {1}, {1}},
	}
	if err := tr.Validate(1, 1); !errors.Is(err, ErrMalformedModel) {
		t.Errorf("Validate() error = %v, want ErrMalformedModel", err)
	}
}

func TestRegressors(t *testing.T) {
	forest := &ForestRegressor{
		NumFeatures: 1,
		Trees:       []Tree{stump(1, []float64{100}, []float64{200}), leafTree(300)},
	}
	boost := &GradientBoostingRegressor{
		NumFeatures:  1,
		Init:         1000,
		LearningRate: 0.1,
		Trees:        []Tree{stump(1, []float64{-50}, []float64{50}), leafTree(10)},
	}
	ridge := &RidgeRegressor{Coef: []float64{2}, Intercept: 5}

	x := []float64{2}
	tests := []struct {
		name string
		reg  Regressor
		want float64
	}{
		{"forest mean", forest, 250},
		{"boosting", boost, 1000 + 0.1*(50+10)},
		{"ridge", ridge, 9},
		{"voting uniform", &VotingRegressor{Estimators: []Regressor{forest, ridge}}, (250 + 9) / 2.0},
		{"voting weighted", &VotingRegressor{Estimators: []Regressor{forest, ridge}, Weights: []float64{3, 1}}, (3*250 + 9) / 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.reg.Predict(x)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if !approx(got, tt.want) {
				t.Errorf("Predict() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("voting propagates estimator error", func(t *testing.T) {
		v := &VotingRegressor{Estimators: []Regressor{forest, &RidgeRegressor{Coef: []float64{1, 2}}}}
		if _, err := v.Predict(x); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("Predict() error = %v, want ErrDimensionMismatch", err)
		}
	})
}

func TestDecodeRegressor_RoundTripVoting(t *testing.T) {
	orig := &VotingRegressor{
		Estimators: []Regressor{
			&ForestRegressor{NumFeatures: 1, Trees: []Tree{leafTree(10)}},
			&GradientBoostingRegressor{NumFeatures: 1, Init: 2, LearningRate: 0.5, Trees: []Tree{leafTree(4)}},
			&RidgeRegressor{Coef: []float64{1}, Intercept: 1},
		},
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	reg, err := DecodeRegressor(data)
	if err != nil {
		t.Fatalf("DecodeRegressor() error = %v", err)
	}
	if reg.Kind() != KindVoting {
		t.Fatalf("Kind() = %q, want %q", reg.Kind(), KindVoting)
	}

	got, err := reg.Predict([]float64{3})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if want := (10 + 4 + 4) / 3.0; !approx(got, want) {
		t.Errorf("Predict() = %v, want %v", got, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		fn   func([]byte) error
	}{
		{"unknown regressor", `{"type":"svm"}`, func(b []byte) error { _, err := DecodeRegressor(b); return err }},
		{"unknown classifier", `{"type":"ridge","coef":[1]}`, func(b []byte) error { _, err := DecodeClassifier(b); return err }},
		{"empty forest", `{"type":"random_forest","n_classes":2,"trees":[]}`, func(b []byte) error { _, err := DecodeClassifier(b); return err }},
		{"bad weights", `{"type":"voting","estimators":[{"type":"ridge","coef":[1]}],"weights":[1,2]}`, func(b []byte) error { _, err := DecodeRegressor(b); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn([]byte(tt.doc)); !errors.Is(err, ErrMalformedModel) {
				t.Errorf("error = %v, want ErrMalformedModel", err)
			}
		})
	}
}

func TestTree_ShortArraysAreErrors(t *testing.T) {
	short := Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{0},
		Value:         [][]float64{{1}},
	}
	forest := &ForestRegressor{Trees: []Tree{short}}

	if err := forest.Validate(); !errors.Is(err, ErrMalformedModel) {
		t.Errorf("Validate() error = %v, want ErrMalformedModel", err)
	}
	for _, x := range [][]float64{{-1, 0, 0, 0}, {5, 0, 0, 0}} {
		if _, err := forest.Predict(x); !errors.Is(err, ErrMalformedModel) {
			t.Errorf("Predict(%v) error = %v, want ErrMalformedModel", x, err)
		}
	}
}
