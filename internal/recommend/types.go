// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"time"
)

// Location identifies the market a farmer sells in. Values are free text;
// unknown values only disable the location-specific price model.
type Location struct {
	State    string `json:"state"`
	District string `json:"district"`
	Market   string `json:"market"`
}

// Options are the per-request scoring knobs. Zero values mean defaults.
type Options struct {
	// TopK is the number of ranked crops to return. 0 uses the configured default.
	TopK int

	// PriceWeight overrides the configured price weight when non-nil.
	PriceWeight *float64

	// SuitabilityWeight overrides the configured suitability weight when non-nil.
	SuitabilityWeight *float64
}

// Request asks for recommendations from a soil type and a season.
type Request struct {
	RequestID string
	SoilType  string
	Season    string
	Location  Location
	Options   Options
}

// EnvironmentRequest asks for recommendations from raw environment values.
type EnvironmentRequest struct {
	RequestID   string
	Environment Environment
	Location    Location
	Options     Options
}

// RankedCrop is one entry of the top-K list. Scores are on a 0-1 scale.
type RankedCrop struct {
	Crop        string      `json:"crop"`
	Price       *float64    `json:"price"`
	PriceSource PriceSource `json:"price_source"`
	Suitability float64     `json:"suitability"`
	Combined    float64     `json:"combined"`
}

// EnvironmentEcho repeats the inputs and the derived parameters.
type EnvironmentEcho struct {
	SoilType string      `json:"soil_type,omitempty"`
	Season   string      `json:"season,omitempty"`
	Location Location    `json:"location"`
	Derived  Environment `json:"derived_parameters"`
}

// Diagnostics counts candidates after the suitability floor.
type Diagnostics struct {
	Evaluated int `json:"total_crops_evaluated"`
	Priced    int `json:"crops_with_prices"`
	Unpriced  int `json:"crops_without_prices"`
}

// ResultMetadata describes how a result was produced.
type ResultMetadata struct {
	RequestID string    `json:"request_id"`
	LatencyMS int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the engine output for one request.
type Result struct {
	// SuitableCrop is the crop with the highest raw suitability.
	SuitableCrop string `json:"suitable_crop"`

	// MostProfitableCrop is the best combined score among priced crops,
	// or SuitableCrop when no crop has a price.
	MostProfitableCrop string `json:"most_profitable_crop"`

	// MostProfitablePrice is nil when no crop has a price.
	MostProfitablePrice *float64 `json:"most_profitable_price"`

	Top         []RankedCrop    `json:"top"`
	Environment EnvironmentEcho `json:"environment"`
	Weights     Weights         `json:"scoring_weights"`
	Diagnostics Diagnostics     `json:"debug_info"`
	Metadata    ResultMetadata  `json:"metadata"`
}

// ModelInfo summarizes the loaded bundle.
type ModelInfo struct {
	SuitabilityModel   string   `json:"suitability_model"`
	PriceModel         string   `json:"price_model"`
	AvailableCrops     int      `json:"available_crops"`
	CropsWithPriceData int      `json:"crops_with_price_data"`
	CropList           []string `json:"crop_list"`
	SupportedSoilTypes []string `json:"supported_soil_types"`
	SupportedSeasons   []string `json:"supported_seasons"`
}

// KnownLocations lists the categories the price model was trained on.
type KnownLocations struct {
	States      []string `json:"states"`
	Districts   []string `json:"districts"`
	Markets     []string `json:"markets"`
	Commodities []string `json:"commodities"`
}

// Stats holds engine counters.
type Stats struct {
	RequestCount int64 `json:"request_count"`
	ErrorCount   int64 `json:"error_count"`
	EmptyResults int64 `json:"empty_results"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	CacheEntries int   `json:"cache_entries"`
}
