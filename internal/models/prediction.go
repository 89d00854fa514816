// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package models

import (
	"math"

	"github.com/tomtom215/cropwise/internal/recommend"
)

// PredictRequest is the body of POST /predict.
//
//	{
//	  "soil_type": "Loamy",
//	  "season": "Kharif",
//	  "state": "Karnataka",
//	  "district": "Belagavi",
//	  "market": "Belgaum"
//	}
//
// Soil type and season are checked against the supported tables by the
// engine, which reports the allowed values on failure.
type PredictRequest struct {
	SoilType string `json:"soil_type" validate:"required,notblank,max=64"`
	Season   string `json:"season" validate:"required,notblank,max=64"`
	State    string `json:"state" validate:"required,notblank,max=128"`
	District string `json:"district" validate:"required,notblank,max=128"`
	Market   string `json:"market" validate:"required,notblank,max=128"`

	ScoringOptions
}

// EnvironmentPredictRequest is the body of POST /predict/environment.
// Location fields are optional here; without them the location price
// model is skipped and only the average price table is consulted.
type EnvironmentPredictRequest struct {
	N           *float64 `json:"N" validate:"required"`
	P           *float64 `json:"P" validate:"required"`
	K           *float64 `json:"K" validate:"required"`
	Temperature *float64 `json:"temperature" validate:"required"`
	Humidity    *float64 `json:"humidity" validate:"required"`
	PH          *float64 `json:"ph" validate:"required"`
	Rainfall    *float64 `json:"rainfall" validate:"required"`

	State    string `json:"state,omitempty" validate:"omitempty,max=128"`
	District string `json:"district,omitempty" validate:"omitempty,max=128"`
	Market   string `json:"market,omitempty" validate:"omitempty,max=128"`

	ScoringOptions
}

// ScoringOptions are the optional per-request knobs shared by both
// prediction bodies.
type ScoringOptions struct {
	TopK              int      `json:"top_k,omitempty" validate:"omitempty,min=1,max=100"`
	PriceWeight       *float64 `json:"price_weight,omitempty" validate:"omitempty,gte=0"`
	SuitabilityWeight *float64 `json:"suitability_weight,omitempty" validate:"omitempty,gte=0"`
}

func (o ScoringOptions) toOptions() recommend.Options {
	return recommend.Options{
		TopK:              o.TopK,
		PriceWeight:       o.PriceWeight,
		SuitabilityWeight: o.SuitabilityWeight,
	}
}

// ToRecommendRequest converts the body to an engine request.
func (r *PredictRequest) ToRecommendRequest(requestID string) recommend.Request {
	return recommend.Request{
		RequestID: requestID,
		SoilType:  r.SoilType,
		Season:    r.Season,
		Location:  recommend.Location{State: r.State, District: r.District, Market: r.Market},
		Options:   r.toOptions(),
	}
}

// ToEnvironmentRequest converts the body to an engine request. Callers
// must validate first; missing parameters are read as zero.
func (r *EnvironmentPredictRequest) ToEnvironmentRequest(requestID string) recommend.EnvironmentRequest {
	val := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return recommend.EnvironmentRequest{
		RequestID: requestID,
		Environment: recommend.Environment{
			N:           val(r.N),
			P:           val(r.P),
			K:           val(r.K),
			Temperature: val(r.Temperature),
			Humidity:    val(r.Humidity),
			PH:          val(r.PH),
			Rainfall:    val(r.Rainfall),
		},
		Location: recommend.Location{State: r.State, District: r.District, Market: r.Market},
		Options:  r.toOptions(),
	}
}

// PredictionView is the client-facing form of a recommendation. Scores are
// percentages and prices are rounded to two decimals.
type PredictionView struct {
	SuitableCrop        string          `json:"suitable_crop"`
	MostProfitableCrop  string          `json:"most_profitable_crop"`
	MostProfitablePrice *float64        `json:"most_profitable_price"`
	Top                 []TopCropView   `json:"top_3"` // holds top_k entries; key kept for existing clients
	Environment         EnvironmentView `json:"environment"`
	ScoringWeights      WeightsView     `json:"scoring_weights"`
	DebugInfo           DebugInfoView   `json:"debug_info"`
}

// TopCropView is one ranked crop.
type TopCropView struct {
	Crop             string   `json:"crop"`
	PredictedPrice   *float64 `json:"predicted_price"`
	PriceSource      string   `json:"price_source,omitempty"`
	SuitabilityScore float64  `json:"suitability_score"`
	CombinedScore    float64  `json:"combined_score"`
}

// EnvironmentView echoes the inputs and the derived parameters.
type EnvironmentView struct {
	SoilType          string                `json:"soil_type,omitempty"`
	Season            string                `json:"season,omitempty"`
	State             string                `json:"state"`
	District          string                `json:"district"`
	Market            string                `json:"market"`
	DerivedParameters recommend.Environment `json:"derived_parameters"`
}

// WeightsView reports the weights actually used.
type WeightsView struct {
	PriceWeight       float64 `json:"price_weight"`
	SuitabilityWeight float64 `json:"suitability_weight"`
}

// DebugInfoView reports candidate counts.
type DebugInfoView struct {
	TotalCropsEvaluated int `json:"total_crops_evaluated"`
	CropsWithPrices     int `json:"crops_with_prices"`
	CropsWithoutPrices  int `json:"crops_without_prices"`
}

// NewPredictionView converts an engine result for presentation.
func NewPredictionView(res *recommend.Result) PredictionView {
	top := make([]TopCropView, len(res.Top))
	for i, rc := range res.Top {
		top[i] = TopCropView{
			Crop:             rc.Crop,
			PredictedPrice:   roundPtr(rc.Price),
			PriceSource:      string(rc.PriceSource),
			SuitabilityScore: Round2(rc.Suitability * 100),
			CombinedScore:    Round2(rc.Combined * 100),
		}
	}

	env := res.Environment
	return PredictionView{
		SuitableCrop:        res.SuitableCrop,
		MostProfitableCrop:  res.MostProfitableCrop,
		MostProfitablePrice: roundPtr(res.MostProfitablePrice),
		Top:                 top,
		Environment: EnvironmentView{
			SoilType:          env.SoilType,
			Season:            env.Season,
			State:             env.Location.State,
			District:          env.Location.District,
			Market:            env.Location.Market,
			DerivedParameters: env.Derived,
		},
		ScoringWeights: WeightsView{
			PriceWeight:       res.Weights.Price,
			SuitabilityWeight: res.Weights.Suitability,
		},
		DebugInfo: DebugInfoView{
			TotalCropsEvaluated: res.Diagnostics.Evaluated,
			CropsWithPrices:     res.Diagnostics.Priced,
			CropsWithoutPrices:  res.Diagnostics.Unpriced,
		},
	}
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}
