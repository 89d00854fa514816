// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"math"
)

var featureOrder = []string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall"}

// FeatureOrder returns the feature order the scaler and classifier were fit on.
func FeatureOrder() []string {
	return append([]string(nil), featureOrder...)
}

// NumFeatures is the length of an environment vector.
const NumFeatures = 7

// SoilProfile holds the nutrient and pH contribution of a soil type.
type SoilProfile struct {
	N  float64 `json:"N"`
	P  float64 `json:"P"`
	K  float64 `json:"K"`
	PH float64 `json:"ph"`
}

// SeasonProfile holds the climate contribution of a season.
type SeasonProfile struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

// Environment is the merged vector fed to the suitability scorer.
type Environment struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}

// Vector returns the environment in feature order.
func (e Environment) Vector() []float64 {
	return []float64{e.N, e.P, e.K, e.Temperature, e.Humidity, e.PH, e.Rainfall}
}

type paramRange struct {
	name     string
	min, max float64
	get      func(Environment) float64
}

// Plausible ranges for raw environment input.
var parameterRanges = []paramRange{
	{"N", 0, 200, func(e Environment) float64 { return e.N }},
	{"P", 0, 200, func(e Environment) float64 { return e.P }},
	{"K", 0, 200, func(e Environment) float64 { return e.K }},
	{"temperature", -10, 60, func(e Environment) float64 { return e.Temperature }},
	{"humidity", 0, 100, func(e Environment) float64 { return e.Humidity }},
	{"ph", 0, 14, func(e Environment) float64 { return e.PH }},
	{"rainfall", 0, 500, func(e Environment) float64 { return e.Rainfall }},
}

// Validate checks every parameter against its plausible range. The first
// offending parameter is reported as an *EnvironmentError.
func (e Environment) Validate() error {
	for _, r := range parameterRanges {
		v := r.get(e)
		if math.IsNaN(v) || v < r.min || v > r.max {
			return &EnvironmentError{Field: r.name, Value: v, Min: r.min, Max: r.max}
		}
	}
	return nil
}

var (
	soilTypes   = []string{"Loamy", "Clay", "Sandy", "Black"}
	seasonTypes = []string{"Rabi", "Kharif", "Summer"}

	soilProfiles = map[string]SoilProfile{
		"Loamy": {N: 50, P: 40, K: 50, PH: 6.5},
		"Clay":  {N: 40, P: 30, K: 40, PH: 7.0},
		"Sandy": {N: 30, P: 20, K: 30, PH: 6.0},
		"Black": {N: 60, P: 50, K: 60, PH: 7.5},
	}

	seasonProfiles = map[string]SeasonProfile{
		"Rabi":   {Temperature: 20, Humidity: 50, Rainfall: 100},
		"Kharif": {Temperature: 28, Humidity: 70, Rainfall: 300},
		"Summer": {Temperature: 35, Humidity: 40, Rainfall: 50},
	}
)

// SoilTypes returns the supported soil types in display order.
func SoilTypes() []string {
	return append([]string(nil), soilTypes...)
}

// SeasonTypes returns the supported seasons in display order.
func SeasonTypes() []string {
	return append([]string(nil), seasonTypes...)
}

// SoilProfiles returns a copy of the soil table.
func SoilProfiles() map[string]SoilProfile {
	out := make(map[string]SoilProfile, len(soilProfiles))
	for k, v := range soilProfiles {
		out[k] = v
	}
	return out
}

// SeasonProfiles returns a copy of the season table.
func SeasonProfiles() map[string]SeasonProfile {
	out := make(map[string]SeasonProfile, len(seasonProfiles))
	for k, v := range seasonProfiles {
		out[k] = v
	}
	return out
}

// DeriveEnvironment merges the soil and season profiles. Keys are matched
// exactly; an unknown key yields a *CategoryError.
func DeriveEnvironment(soilType, season string) (Environment, error) {
	soil, ok := soilProfiles[soilType]
	if !ok {
		return Environment{}, &CategoryError{Field: "soil_type", Value: soilType, Allowed: SoilTypes()}
	}
	sea, ok := seasonProfiles[season]
	if !ok {
		return Environment{}, &CategoryError{Field: "season", Value: season, Allowed: SeasonTypes()}
	}

	return Environment{
		N:           soil.N,
		P:           soil.P,
		K:           soil.K,
		Temperature: sea.Temperature,
		Humidity:    sea.Humidity,
		PH:          soil.PH,
		Rainfall:    sea.Rainfall,
	}, nil
}
