// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"fmt"
	"math"
)

// NormEpsilon keeps min-max normalization finite when min == max.
const NormEpsilon = 1e-8

// UnpricedPriceScore is the normalized price term given to a crop without a
// price when other crops do have one. At zero, an unpriced crop scores only
// SuitabilityWeight * normalized suitability and so trails priced crops of
// equal suitability.
const UnpricedPriceScore = 0.0

// Default blend weights.
const (
	DefaultPriceWeight       = 0.6
	DefaultSuitabilityWeight = 0.4
)

// Weights controls the combined score. They are applied as given and are
// not renormalized to sum to 1.
type Weights struct {
	Price       float64 `json:"price_weight"`
	Suitability float64 `json:"suitability_weight"`
}

// DefaultWeights returns the 0.6 price / 0.4 suitability split.
func DefaultWeights() Weights {
	return Weights{Price: DefaultPriceWeight, Suitability: DefaultSuitabilityWeight}
}

// Validate rejects negative or non-finite weights.
func (w Weights) Validate() error {
	if err := checkWeight("price_weight", w.Price); err != nil {
		return err
	}
	return checkWeight("suitability_weight", w.Suitability)
}

func checkWeight(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidWeights, name, v)
	}
	return nil
}

// Candidate is a crop that passed the suitability floor.
type Candidate struct {
	Crop        string
	Order       int // position in the classifier's class list
	Suitability float64
	Price       float64
	Priced      bool
	PriceSource PriceSource
	Combined    float64
}

// Blend computes Combined for every candidate in place and returns the number
// of priced candidates.
//
// With at least one price, suitability is min-max normalized over all
// candidates and price over priced candidates. Without any price, Combined is
// the raw suitability.
func Blend(cands []Candidate, w Weights) int {
	if len(cands) == 0 {
		return 0
	}

	priced := 0
	priceMin, priceMax := math.Inf(1), math.Inf(-1)
	suitMin, suitMax := math.Inf(1), math.Inf(-1)
	for i := range cands {
		c := &cands[i]
		suitMin = math.Min(suitMin, c.Suitability)
		suitMax = math.Max(suitMax, c.Suitability)
		if c.Priced {
			priced++
			priceMin = math.Min(priceMin, c.Price)
			priceMax = math.Max(priceMax, c.Price)
		}
	}

	if priced == 0 {
		for i := range cands {
			cands[i].Combined = cands[i].Suitability
		}
		return 0
	}

	for i := range cands {
		c := &cands[i]
		normSuit := (c.Suitability - suitMin) / (suitMax - suitMin + NormEpsilon)
		normPrice := UnpricedPriceScore
		if c.Priced {
			normPrice = (c.Price - priceMin) / (priceMax - priceMin + NormEpsilon)
		}
		c.Combined = w.Price*normPrice + w.Suitability*normSuit
	}
	return priced
}
