// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"fmt"
)

// DefaultSuitabilityFloor drops noise-level predictions before pricing.
const DefaultSuitabilityFloor = 0.01

// CropProbability is the classifier output for one crop.
type CropProbability struct {
	Crop        string  `json:"crop"`
	Probability float64 `json:"probability"`
}

// SuitabilityScorer turns an environment into per-crop probabilities.
type SuitabilityScorer struct {
	bundle *Bundle
	floor  float64
}

// NewSuitabilityScorer returns a scorer using the bundle's scaler and
// classifier. Crops with probability below floor are not candidates.
func NewSuitabilityScorer(b *Bundle, floor float64) *SuitabilityScorer {
	return &SuitabilityScorer{bundle: b, floor: floor}
}

// Score returns one probability per crop class, in class order.
func (s *SuitabilityScorer) Score(env Environment) ([]CropProbability, error) {
	scaled, err := s.bundle.scaler.Transform(env.Vector())
	if err != nil {
		return nil, fmt.Errorf("scale environment: %w", err)
	}

	proba, err := s.predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("predict suitability: %w", err)
	}
	if len(proba) != s.bundle.crops.Len() {
		return nil, fmt.Errorf("%w: classifier returned %d probabilities for %d crops",
			ErrInvalidBundle, len(proba), s.bundle.crops.Len())
	}

	out := make([]CropProbability, len(proba))
	for i, p := range proba {
		out[i] = CropProbability{Crop: s.bundle.crops.classes[i], Probability: p}
	}
	return out, nil
}

// predict shields callers from a classifier that panics on bad input.
func (s *SuitabilityScorer) predict(x []float64) (proba []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			proba, err = nil, fmt.Errorf("%w: classifier panicked: %v", ErrInvalidBundle, r)
		}
	}()
	return s.bundle.classifier.PredictProba(x)
}

// Candidates returns the crops at or above the floor, keeping class order.
func (s *SuitabilityScorer) Candidates(env Environment) ([]Candidate, error) {
	probs, err := s.Score(env)
	if err != nil {
		return nil, err
	}

	cands := make([]Candidate, 0, len(probs))
	for i, p := range probs {
		if p.Probability < s.floor {
			continue
		}
		cands = append(cands, Candidate{
			Crop:        p.Crop,
			Order:       i,
			Suitability: p.Probability,
			PriceSource: PriceSourceNone,
		})
	}
	return cands, nil
}
