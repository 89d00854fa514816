// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"strings"

	"github.com/tomtom215/cropwise/internal/recommend/estimator"
)

// PriceSource names the strategy that produced a price.
type PriceSource string

// Price sources, in resolution order.
const (
	PriceSourceLocationModel   PriceSource = "location_model"
	PriceSourceExact           PriceSource = "exact_match"
	PriceSourceCaseInsensitive PriceSource = "case_insensitive_match"
	PriceSourceCommodityAlias  PriceSource = "commodity_alias"
	PriceSourceNormalized      PriceSource = "normalized_match"
	PriceSourceNone            PriceSource = "none"
)

// PriceQuery is the input to every price strategy.
type PriceQuery struct {
	Crop     string
	Location LocationCodes
}

// PriceStrategy is one tier of the price fallback chain. Resolve returns
// false when the tier has no answer; it never fails.
type PriceStrategy interface {
	Source() PriceSource
	Resolve(q PriceQuery) (float64, bool)
}

// PriceResolution is the outcome of running the chain.
type PriceResolution struct {
	Price  float64
	Found  bool
	Source PriceSource
}

// PriceResolver runs strategies in order; the first hit wins.
type PriceResolver struct {
	strategies []PriceStrategy
}

// NewPriceResolver returns the standard chain for a bundle:
// location model, exact, case-insensitive, commodity alias, normalized.
func NewPriceResolver(b *Bundle) *PriceResolver {
	return NewPriceResolverWith(
		LocationModelStrategy{Bundle: b},
		ExactMatchStrategy{Table: b.prices},
		CaseInsensitiveStrategy{Table: b.prices},
		CommodityAliasStrategy{Commodity: b.encoders.Commodity, Table: b.prices},
		NormalizedMatchStrategy{Table: b.prices},
	)
}

// NewPriceResolverWith builds a resolver from explicit strategies.
func NewPriceResolverWith(strategies ...PriceStrategy) *PriceResolver {
	return &PriceResolver{strategies: strategies}
}

// Resolve runs the chain for q. An unresolved crop has Source none.
func (r *PriceResolver) Resolve(q PriceQuery) PriceResolution {
	for _, s := range r.strategies {
		if price, ok := s.Resolve(q); ok {
			return PriceResolution{Price: price, Found: true, Source: s.Source()}
		}
	}
	return PriceResolution{Source: PriceSourceNone}
}

// LocationModelStrategy asks the price regressor for a location-specific
// price. It only applies when state, district, market and the crop as a
// commodity are all known to the encoders. Model failures mean "no answer".
type LocationModelStrategy struct {
	Bundle *Bundle
}

// Source implements PriceStrategy.
func (LocationModelStrategy) Source() PriceSource { return PriceSourceLocationModel }

// Resolve implements PriceStrategy.
func (s LocationModelStrategy) Resolve(q PriceQuery) (float64, bool) {
	if s.Bundle == nil || !q.Location.Known {
		return 0, false
	}
	commodity, ok := s.Bundle.encoders.Commodity.Encode(q.Crop)
	if !ok {
		return 0, false
	}

	x := []float64{
		float64(q.Location.State),
		float64(q.Location.District),
		float64(q.Location.Market),
		float64(commodity),
	}
	return predictPrice(s.Bundle.regressor, x)
}

// predictPrice calls the regressor and turns both errors and panics into
// "no answer" so the next strategy gets a chance.
func predictPrice(reg estimator.Regressor, x []float64) (price float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			price, ok = 0, false
		}
	}()
	price, err := reg.Predict(x)
	if err != nil {
		return 0, false
	}
	return price, true
}

// ExactMatchStrategy looks the crop up verbatim.
type ExactMatchStrategy struct {
	Table *PriceTable
}

// Source implements PriceStrategy.
func (ExactMatchStrategy) Source() PriceSource { return PriceSourceExact }

// Resolve implements PriceStrategy.
func (s ExactMatchStrategy) Resolve(q PriceQuery) (float64, bool) {
	return s.Table.Lookup(q.Crop)
}

// CaseInsensitiveStrategy matches lower-cased, trimmed names.
type CaseInsensitiveStrategy struct {
	Table *PriceTable
}

// Source implements PriceStrategy.
func (CaseInsensitiveStrategy) Source() PriceSource { return PriceSourceCaseInsensitive }

// Resolve implements PriceStrategy.
func (s CaseInsensitiveStrategy) Resolve(q PriceQuery) (float64, bool) {
	if s.Table == nil {
		return 0, false
	}
	want := foldName(q.Crop)
	for _, e := range s.Table.entries {
		if foldName(e.Crop) == want {
			return e.Price, true
		}
	}
	return 0, false
}

// CommodityAliasStrategy finds a commodity class spelled like the crop and
// uses that commodity's table price.
type CommodityAliasStrategy struct {
	Commodity *Encoder
	Table     *PriceTable
}

// Source implements PriceStrategy.
func (CommodityAliasStrategy) Source() PriceSource { return PriceSourceCommodityAlias }

// Resolve implements PriceStrategy.
func (s CommodityAliasStrategy) Resolve(q PriceQuery) (float64, bool) {
	if s.Commodity == nil {
		return 0, false
	}
	want := foldName(q.Crop)
	for _, commodity := range s.Commodity.classes {
		if foldName(commodity) != want {
			continue
		}
		if price, ok := s.Table.Lookup(commodity); ok {
			return price, true
		}
	}
	return 0, false
}

// NormalizedMatchStrategy strips spaces and hyphens and accepts either an
// equal name or a table name containing the crop name. The first table entry
// that matches wins, so the result depends on table order and a short name
// can match an unrelated crop ("pea" is inside "pearlmillet").
type NormalizedMatchStrategy struct {
	Table *PriceTable
}

// Source implements PriceStrategy.
func (NormalizedMatchStrategy) Source() PriceSource { return PriceSourceNormalized }

// Resolve implements PriceStrategy.
func (s NormalizedMatchStrategy) Resolve(q PriceQuery) (float64, bool) {
	if s.Table == nil {
		return 0, false
	}
	want := compactName(q.Crop)
	if want == "" {
		return 0, false
	}
	for _, e := range s.Table.entries {
		got := compactName(e.Crop)
		if got == want || strings.Contains(got, want) {
			return e.Price, true
		}
	}
	return 0, false
}

func foldName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var compactReplacer = strings.NewReplacer(" ", "", "-", "")

func compactName(s string) string {
	return compactReplacer.Replace(foldName(s))
}
