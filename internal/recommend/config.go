// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights are the default blend weights for requests that do not
	// override them.
	Weights Weights `json:"weights"`

	// SuitabilityFloor drops crops with a lower probability before pricing.
	// Default: 0.01.
	SuitabilityFloor float64 `json:"suitability_floor"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of ranked crops returned when a request does
	// not ask for a specific count.
	// Default: 3.
	DefaultK int `json:"default_k"`

	// MaxK caps the requested K.
	// Default: 50.
	MaxK int `json:"max_k"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled controls whether results are cached. The engine is
	// deterministic for a given bundle, so cached results never go stale.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 10m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached results.
	// Default: 5000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights:          DefaultWeights(),
		SuitabilityFloor: DefaultSuitabilityFloor,
		Limits: LimitsConfig{
			DefaultK: DefaultTopK,
			MaxK:     50,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 5000,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.SuitabilityFloor < 0 || c.SuitabilityFloor >= 1 {
		return fmt.Errorf("suitability_floor must be in [0, 1), got %f", c.SuitabilityFloor)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k (%d) must be >= limits.default_k (%d)", c.Limits.MaxK, c.Limits.DefaultK)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when cache is enabled, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive when cache is enabled, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
