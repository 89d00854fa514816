// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"errors"
	"math"
	"testing"
)

func TestBlend_Scenario(t *testing.T) {
	cands := []Candidate{
		{Crop: "Rice", Order: 0, Suitability: 0.6, Price: 2000, Priced: true},
		{Crop: "Maize", Order: 1, Suitability: 0.3},
		{Crop: "Cotton", Order: 2, Suitability: 0.1, Price: 1500, Priced: true},
	}
	priced := Blend(cands, DefaultWeights())
	if priced != 2 {
		t.Fatalf("Blend() priced = %d, want 2", priced)
	}

	want := map[string]float64{
		"Rice":   0.6*(500/(500+NormEpsilon)) + 0.4*(0.5/(0.5+NormEpsilon)),
		"Maize":  0.4 * (0.2 / (0.5 + NormEpsilon)),
		"Cotton": 0,
	}
	for _, c := range cands {
		if !approx(c.Combined, want[c.Crop]) {
			t.Errorf("%s Combined = %v, want %v", c.Crop, c.Combined, want[c.Crop])
		}
	}
}

func TestBlend_NoPrices(t *testing.T) {
	cands := []Candidate{{Crop: "A", Suitability: 0.7}, {Crop: "B", Suitability: 0.2}}
	if priced := Blend(cands, Weights{Price: 5, Suitability: 5}); priced != 0 {
		t.Fatalf("priced = %d, want 0", priced)
	}
	for _, c := range cands {
		if c.Combined != c.Suitability {
			t.Errorf("%s Combined = %v, want raw suitability %v", c.Crop, c.Combined, c.Suitability)
		}
	}
}

func TestBlend_EqualValuesStayFinite(t *testing.T) {
	cands := []Candidate{
		{Crop: "A", Suitability: 0.5, Price: 100, Priced: true},
		{Crop: "B", Suitability: 0.5, Price: 100, Priced: true},
	}
	Blend(cands, DefaultWeights())
	for _, c := range cands {
		if math.IsNaN(c.Combined) || math.IsInf(c.Combined, 0) || c.Combined != 0 {
			t.Errorf("%s Combined = %v, want 0", c.Crop, c.Combined)
		}
	}
}

func TestBlend_UnpricedTrailsPricedAtEqualSuitability(t *testing.T) {
	cands := []Candidate{
		{Crop: "Low", Suitability: 0.1, Price: 10, Priced: true},
		{Crop: "Unpriced", Suitability: 0.9},
		{Crop: "Priced", Suitability: 0.9, Price: 20, Priced: true},
	}
	Blend(cands, DefaultWeights())
	if cands[1].Combined > cands[2].Combined {
		t.Errorf("unpriced %v > priced %v", cands[1].Combined, cands[2].Combined)
	}
	if !approx(cands[1].Combined, DefaultSuitabilityWeight*0.8/(0.8+NormEpsilon)) {
		t.Errorf("unpriced Combined = %v", cands[1].Combined)
	}
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		w       Weights
		wantErr bool
	}{
		{"defaults", DefaultWeights(), false},
		{"unnormalized", Weights{Price: 3, Suitability: 1}, false},
		{"zeros", Weights{}, false},
		{"negative price", Weights{Price: -0.1, Suitability: 1}, true},
		{"nan suitability", Weights{Price: 1, Suitability: math.NaN()}, true},
		{"inf price", Weights{Price: math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidWeights) {
				t.Errorf("error = %v, want ErrInvalidWeights", err)
			}
		})
	}
}

func TestRank(t *testing.T) {
	cands := []Candidate{
		{Crop: "A", Order: 0, Suitability: 0.2, Combined: 0.5, Priced: true},
		{Crop: "B", Order: 1, Suitability: 0.5, Combined: 0.9},
		{Crop: "C", Order: 2, Suitability: 0.5, Combined: 0.5, Priced: true},
		{Crop: "D", Order: 3, Suitability: 0.1, Combined: 0.1},
	}

	r, err := Rank(cands, 3)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	wantOrder := []string{"B", "A", "C"}
	if len(r.Top) != len(wantOrder) {
		t.Fatalf("len(Top) = %d, want %d", len(r.Top), len(wantOrder))
	}
	for i, c := range r.Top {
		if c.Crop != wantOrder[i] {
			t.Errorf("Top[%d] = %s, want %s", i, c.Crop, wantOrder[i])
		}
	}
	if r.BestBySuitability.Crop != "B" {
		t.Errorf("BestBySuitability = %s, want B (first of tied maximum)", r.BestBySuitability.Crop)
	}
	if r.MostProfitable == nil || r.MostProfitable.Crop != "A" {
		t.Errorf("MostProfitable = %+v, want A (first of tied priced maximum)", r.MostProfitable)
	}
}

func TestRank_Edges(t *testing.T) {
	if _, err := Rank(nil, 3); !errors.Is(err, ErrEmptyCandidateSet) {
		t.Errorf("Rank(nil) error = %v, want ErrEmptyCandidateSet", err)
	}

	cands := []Candidate{{Crop: "A", Suitability: 0.3, Combined: 0.3}, {Crop: "B", Suitability: 0.7, Combined: 0.7}}
	r, err := Rank(cands, 0)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(r.Top) != 2 {
		t.Errorf("len(Top) = %d, want all 2 candidates when fewer than K", len(r.Top))
	}
	if r.MostProfitable != nil {
		t.Errorf("MostProfitable = %+v, want nil without prices", r.MostProfitable)
	}
	if cands[0].Crop != "A" {
		t.Error("Rank() reordered its input")
	}
}
