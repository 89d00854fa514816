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

func TestDeriveEnvironment(t *testing.T) {
	tests := []struct {
		soil, season string
		want         Environment
	}{
		{"Loamy", "Kharif", Environment{N: 50, P: 40, K: 50, Temperature: 28, Humidity: 70, PH: 6.5, Rainfall: 300}},
		{"Clay", "Rabi", Environment{N: 40, P: 30, K: 40, Temperature: 20, Humidity: 50, PH: 7.0, Rainfall: 100}},
		{"Sandy", "Summer", Environment{N: 30, P: 20, K: 30, Temperature: 35, Humidity: 40, PH: 6.0, Rainfall: 50}},
		{"Black", "Kharif", Environment{N: 60, P: 50, K: 60, Temperature: 28, Humidity: 70, PH: 7.5, Rainfall: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.soil+"/"+tt.season, func(t *testing.T) {
			got, err := DeriveEnvironment(tt.soil, tt.season)
			if err != nil {
				t.Fatalf("DeriveEnvironment() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DeriveEnvironment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDeriveEnvironment_UnknownCategory(t *testing.T) {
	tests := []struct {
		name, soil, season, field string
	}{
		{"unknown soil", "Peaty", "Rabi", "soil_type"},
		{"lowercase soil", "loamy", "Rabi", "soil_type"},
		{"unknown season", "Clay", "Monsoon", "season"},
		{"padded season", "Clay", " Rabi", "season"},
		{"both unknown reports soil first", "x", "y", "soil_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveEnvironment(tt.soil, tt.season)
			if !errors.Is(err, ErrInvalidCategory) {
				t.Fatalf("error = %v, want ErrInvalidCategory", err)
			}
			var ce *CategoryError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not *CategoryError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
			if len(ce.Allowed) == 0 {
				t.Error("Allowed is empty")
			}
		})
	}
}

func TestEnvironment_Vector(t *testing.T) {
	env := Environment{N: 1, P: 2, K: 3, Temperature: 4, Humidity: 5, PH: 6, Rainfall: 7}
	v := env.Vector()
	if len(v) != NumFeatures || len(FeatureOrder()) != NumFeatures {
		t.Fatalf("len(Vector()) = %d, len(FeatureOrder()) = %d, want %d", len(v), len(FeatureOrder()), NumFeatures)
	}
	for i, x := range v {
		if x != float64(i+1) {
			t.Errorf("Vector()[%d] = %v, want %v (%s)", i, x, i+1, FeatureOrder()[i])
		}
	}
}

func TestEnvironment_Validate(t *testing.T) {
	valid := Environment{N: 90, P: 42, K: 43, Temperature: 20.8, Humidity: 82, PH: 6.5, Rainfall: 202.9}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Environment)
		field  string
	}{
		{"N above range", func(e *Environment) { e.N = 201 }, "N"},
		{"negative K", func(e *Environment) { e.K = -1 }, "K"},
		{"cold", func(e *Environment) { e.Temperature = -11 }, "temperature"},
		{"humidity over 100", func(e *Environment) { e.Humidity = 100.5 }, "humidity"},
		{"ph above 14", func(e *Environment) { e.PH = 14.1 }, "ph"},
		{"rainfall NaN", func(e *Environment) { e.Rainfall = math.NaN() }, "rainfall"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := valid
			tt.mutate(&env)
			err := env.Validate()
			var ee *EnvironmentError
			if !errors.As(err, &ee) || !errors.Is(err, ErrInvalidEnvironment) {
				t.Fatalf("Validate() error = %v, want *EnvironmentError", err)
			}
			if ee.Field != tt.field {
				t.Errorf("Field = %q, want %q", ee.Field, tt.field)
			}
		})
	}
}

func TestProfiles_ReturnCopies(t *testing.T) {
	soils := SoilProfiles()
	soils["Loamy"] = SoilProfile{}
	if SoilProfiles()["Loamy"].N != 50 {
		t.Error("mutating SoilProfiles() result changed the table")
	}
	types := SoilTypes()
	types[0] = "Mutated"
	if SoilTypes()[0] != "Loamy" {
		t.Error("mutating SoilTypes() result changed the list")
	}
	if len(SeasonProfiles()) != len(SeasonTypes()) {
		t.Errorf("SeasonProfiles() has %d entries, SeasonTypes() %d", len(SeasonProfiles()), len(SeasonTypes()))
	}
}
