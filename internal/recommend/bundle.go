// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"fmt"
	"math"

	"github.com/tomtom215/cropwise/internal/recommend/estimator"
)

// PriceEntry is one row of the average price table.
type PriceEntry struct {
	Crop  string  `json:"crop"`
	Price float64 `json:"price"`
}

// PriceTable maps crop names to average observed prices. Entry order is
// preserved because the loose name-matching strategy takes the first hit.
type PriceTable struct {
	entries []PriceEntry
	index   map[string]int
}

// NewPriceTable builds a table from entries in iteration order.
func NewPriceTable(entries []PriceEntry) (*PriceTable, error) {
	t := &PriceTable{
		entries: append([]PriceEntry(nil), entries...),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range t.entries {
		if math.IsNaN(e.Price) || math.IsInf(e.Price, 0) {
			return nil, fmt.Errorf("%w: price for %q is not finite", ErrInvalidBundle, e.Crop)
		}
		if _, dup := t.index[e.Crop]; dup {
			return nil, fmt.Errorf("%w: duplicate price entry %q", ErrInvalidBundle, e.Crop)
		}
		t.index[e.Crop] = i
	}
	return t, nil
}

// Lookup returns the price stored under exactly crop.
func (t *PriceTable) Lookup(crop string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[crop]
	if !ok {
		return 0, false
	}
	return t.entries[i].Price, true
}

// Len returns the number of priced crops.
func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the table in iteration order.
func (t *PriceTable) Entries() []PriceEntry {
	if t == nil {
		return nil
	}
	return append([]PriceEntry(nil), t.entries...)
}

// BundleParts are the raw pieces a Bundle is assembled from.
type BundleParts struct {
	Scaler      *estimator.StandardScaler
	Encoders    EncoderSet
	Classifier  estimator.Classifier
	CropClasses []string
	Regressor   estimator.Regressor
	Prices      []PriceEntry
}

// Bundle is the immutable set of pretrained artifacts. Construct it with
// NewBundle; fields are unexported so nothing can change it afterwards.
type Bundle struct {
	scaler     *estimator.StandardScaler
	encoders   EncoderSet
	classifier estimator.Classifier
	crops      *Encoder
	regressor  estimator.Regressor
	prices     *PriceTable
}

// NewBundle validates the parts against each other and returns a Bundle.
func NewBundle(p BundleParts) (*Bundle, error) {
	if p.Scaler == nil {
		return nil, fmt.Errorf("%w: scaler is required", ErrInvalidBundle)
	}
	if err := p.Scaler.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if p.Scaler.NumFeatures() != NumFeatures {
		return nil, fmt.Errorf("%w: scaler fit on %d features, want %d", ErrInvalidBundle, p.Scaler.NumFeatures(), NumFeatures)
	}
	if err := p.Encoders.validate(); err != nil {
		return nil, err
	}
	if p.Classifier == nil {
		return nil, fmt.Errorf("%w: suitability classifier is required", ErrInvalidBundle)
	}
	if p.Regressor == nil {
		return nil, fmt.Errorf("%w: price regressor is required", ErrInvalidBundle)
	}
	if len(p.CropClasses) == 0 {
		return nil, fmt.Errorf("%w: no crop classes", ErrInvalidBundle)
	}
	if err := validateModel("suitability classifier", p.Classifier); err != nil {
		return nil, err
	}
	if err := validateModel("price regressor", p.Regressor); err != nil {
		return nil, err
	}
	if p.Classifier.NumClasses() != len(p.CropClasses) {
		return nil, fmt.Errorf("%w: classifier has %d classes but %d crop names",
			ErrInvalidBundle, p.Classifier.NumClasses(), len(p.CropClasses))
	}

	crops, err := NewEncoder(p.CropClasses)
	if err != nil {
		return nil, err
	}
	prices, err := NewPriceTable(p.Prices)
	if err != nil {
		return nil, err
	}

	scaler := &estimator.StandardScaler{
		Mean:  append([]float64(nil), p.Scaler.Mean...),
		Scale: append([]float64(nil), p.Scaler.Scale...),
	}

	return &Bundle{
		scaler:     scaler,
		encoders:   p.Encoders,
		classifier: p.Classifier,
		crops:      crops,
		regressor:  p.Regressor,
		prices:     prices,
	}, nil
}

// validateModel runs the model's own structural check when it has one.
func validateModel(name string, model any) error {
	v, ok := model.(interface{ Validate() error })
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidBundle, name, err)
	}
	return nil
}

// Encoders returns the location and commodity encoders.
func (b *Bundle) Encoders() EncoderSet { return b.encoders }

// Crops returns the crop class encoder.
func (b *Bundle) Crops() *Encoder { return b.crops }

// Prices returns the average price table.
func (b *Bundle) Prices() *PriceTable { return b.prices }

// ClassifierKind returns the suitability model type.
func (b *Bundle) ClassifierKind() string { return b.classifier.Kind() }

// RegressorKind returns the price model type.
func (b *Bundle) RegressorKind() string { return b.regressor.Kind() }
