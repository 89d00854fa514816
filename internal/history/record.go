// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cropwise/internal/recommend"
)

// Record is one served recommendation.
type Record struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	SoilType string `json:"soil_type,omitempty"`
	Season   string `json:"season,omitempty"`
	State    string `json:"state"`
	District string `json:"district"`
	Market   string `json:"market"`

	SuitableCrop        string   `json:"suitable_crop"`
	MostProfitableCrop  string   `json:"most_profitable_crop"`
	MostProfitablePrice *float64 `json:"most_profitable_price"`
	TopCrops            []string `json:"top_crops"`

	PriceWeight       float64 `json:"price_weight"`
	SuitabilityWeight float64 `json:"suitability_weight"`
}

// NewRecord builds a record from an engine result.
func NewRecord(res *recommend.Result) *Record {
	rec := &Record{
		ID:                 uuid.New().String(),
		RequestID:          res.Metadata.RequestID,
		CreatedAt:          time.Now().UTC(),
		SoilType:           res.Environment.SoilType,
		Season:             res.Environment.Season,
		State:              res.Environment.Location.State,
		District:           res.Environment.Location.District,
		Market:             res.Environment.Location.Market,
		SuitableCrop:       res.SuitableCrop,
		MostProfitableCrop: res.MostProfitableCrop,
		PriceWeight:        res.Weights.Price,
		SuitabilityWeight:  res.Weights.Suitability,
		TopCrops:           make([]string, len(res.Top)),
	}
	if res.MostProfitablePrice != nil {
		price := *res.MostProfitablePrice
		rec.MostProfitablePrice = &price
	}
	for i, c := range res.Top {
		rec.TopCrops[i] = c.Crop
	}
	return rec
}
