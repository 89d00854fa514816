// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"math"
	"testing"

	"github.com/tomtom215/cropwise/internal/recommend/estimator"
)

const tol = 1e-6

func approx(a, b float64) bool {
	return math.Abs(a-b) < tol
}

// fixture describes a small bundle. The classifier ignores its input and
// always returns probs, so tests control suitability directly.
type fixture struct {
	crops       []string
	probs       []float64
	prices      []PriceEntry
	states      []string
	districts   []string
	markets     []string
	commodities []string
	// price model: intercept + 100*commodity code
	intercept float64
}

func defaultFixture() fixture {
	return fixture{
		crops:       []string{"Rice", "Maize", "Cotton"},
		probs:       []float64{0.6, 0.3, 0.1},
		prices:      []PriceEntry{{Crop: "Rice", Price: 2000}, {Crop: "Cotton", Price: 1500}},
		states:      []string{"Karnataka", "Punjab"},
		districts:   []string{"Ludhiana", "Mysore"},
		markets:     []string{"Khanna", "Mysore APMC"},
		commodities: []string{"Cotton", "Wheat"},
		intercept:   3000,
	}
}

func constantClassifier(probs []float64) *estimator.ForestClassifier {
	return &estimator.ForestClassifier{
		Classes:     len(probs),
		NumFeatures: NumFeatures,
		Trees: []estimator.Tree{{
			ChildrenLeft:  []int{-1},
			ChildrenRight: []int{-1},
			Feature:       []int{-2},
			Threshold:     []float64{-2},
			Value:         [][]float64{append([]float64(nil), probs...)},
		}},
	}
}

func mustEncoder(t *testing.T, classes []string) *Encoder {
	t.Helper()
	enc, err := NewEncoder(classes)
	if err != nil {
		t.Fatalf("NewEncoder(%v) error = %v", classes, err)
	}
	return enc
}

func (f fixture) parts(t *testing.T) BundleParts {
	t.Helper()
	mean := make([]float64, NumFeatures)
	scale := make([]float64, NumFeatures)
	for i := range scale {
		scale[i] = 1
	}
	return BundleParts{
		Scaler: &estimator.StandardScaler{Mean: mean, Scale: scale},
		Encoders: EncoderSet{
			State:     mustEncoder(t, f.states),
			District:  mustEncoder(t, f.districts),
			Market:    mustEncoder(t, f.markets),
			Commodity: mustEncoder(t, f.commodities),
		},
		Classifier:  constantClassifier(f.probs),
		CropClasses: f.crops,
		Regressor: &estimator.RidgeRegressor{
			Coef:      []float64{0, 0, 0, 100},
			Intercept: f.intercept,
		},
		Prices: f.prices,
	}
}

func (f fixture) bundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := NewBundle(f.parts(t))
	if err != nil {
		t.Fatalf("NewBundle() error = %v", err)
	}
	return b
}

func (f fixture) handle(t *testing.T) *ModelHandle {
	t.Helper()
	h := NewModelHandle("test")
	if !h.Publish(f.bundle(t)) {
		t.Fatal("Publish() = false on empty handle")
	}
	return h
}

func floatPtr(v float64) *float64 {
	return &v
}

// shortArrayTree splits on feature 0 but is missing thresholds and values
// for its two leaves.
func shortArrayTree() estimator.Tree {
	return estimator.Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{0},
		Value:         [][]float64{{1}},
	}
}

// unchecked hides the wrapped regressor's Validate method from NewBundle.
type unchecked struct {
	estimator.Regressor
}

type panickingRegressor struct{}

func (panickingRegressor) Predict([]float64) (float64, error) {
	panic("index out of range")
}

func (panickingRegressor) Kind() string { return "panicking" }

func findRanked(t *testing.T, res *Result, crop string) RankedCrop {
	t.Helper()
	for _, rc := range res.Top {
		if rc.Crop == crop {
			return rc
		}
	}
	t.Fatalf("%s missing from Top %+v", crop, res.Top)
	return RankedCrop{}
}
