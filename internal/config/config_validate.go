// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package config

import (
	"fmt"
	"math"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateHistory(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validEnvironments defines the allowed server environments
var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

// validateRecommend validates model loading and engine configuration
func (c *Config) validateRecommend() error {
	if err := c.validateModelSource(); err != nil {
		return err
	}
	if err := c.validateTopK(); err != nil {
		return err
	}
	if err := c.validateWeights(); err != nil {
		return err
	}
	if c.Recommend.SuitabilityFloor < 0 || c.Recommend.SuitabilityFloor >= 1 {
		return fmt.Errorf("SUITABILITY_FLOOR must be in [0, 1)")
	}
	return c.validateRecommendCache()
}

// validateModelSource validates where the bundle is loaded from
func (c *Config) validateModelSource() error {
	r := c.Recommend
	if r.ModelPath == "" && r.ModelStoreDir == "" {
		return fmt.Errorf("MODEL_PATH or MODEL_STORE_DIR is required")
	}
	if r.ModelPath == "" && r.ModelName == "" {
		return fmt.Errorf("MODEL_NAME is required when loading from MODEL_STORE_DIR")
	}
	if r.LoadRetryInterval < time.Second {
		return fmt.Errorf("MODEL_LOAD_RETRY_INTERVAL must be at least 1s")
	}
	return nil
}

// validateTopK validates the ranking limits
func (c *Config) validateTopK() error {
	if c.Recommend.TopK < 1 {
		return fmt.Errorf("TOP_K must be at least 1")
	}
	if c.Recommend.MaxK < c.Recommend.TopK {
		return fmt.Errorf("MAX_K (%d) must be >= TOP_K (%d)", c.Recommend.MaxK, c.Recommend.TopK)
	}
	return nil
}

// validateWeights validates the default blend weights.
// Weights are not required to sum to 1.
func (c *Config) validateWeights() error {
	for name, w := range map[string]float64{
		"PRICE_WEIGHT":       c.Recommend.PriceWeight,
		"SUITABILITY_WEIGHT": c.Recommend.SuitabilityWeight,
	} {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%s must be a finite non-negative number", name)
		}
	}
	return nil
}

// validateRecommendCache validates result cache configuration
func (c *Config) validateRecommendCache() error {
	if !c.Recommend.CacheEnabled {
		return nil
	}
	if c.Recommend.CacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when the cache is enabled")
	}
	if c.Recommend.CacheMaxEntries < 1 {
		return fmt.Errorf("RECOMMEND_CACHE_MAX_ENTRIES must be at least 1 when the cache is enabled")
	}
	return nil
}

// validateHistory validates prediction history configuration (only if enabled)
func (c *Config) validateHistory() error {
	h := c.History
	if !h.Enabled {
		return nil
	}
	if !h.InMemory && h.Path == "" {
		return fmt.Errorf("HISTORY_PATH is required when HISTORY_ENABLED=true")
	}
	if h.Retention < 0 {
		return fmt.Errorf("HISTORY_RETENTION must not be negative")
	}
	if h.GCInterval < time.Minute {
		return fmt.Errorf("HISTORY_GC_INTERVAL must be at least 1m")
	}
	if h.BreakerThreshold == 0 {
		return fmt.Errorf("HISTORY_BREAKER_THRESHOLD must be at least 1")
	}
	if h.BreakerTimeout <= 0 {
		return fmt.Errorf("HISTORY_BREAKER_TIMEOUT must be positive")
	}
	if h.MaxRetries < 0 {
		return fmt.Errorf("HISTORY_MAX_RETRIES must not be negative")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS validates CORS configuration.
func (c *Config) validateCORS() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin (use * to allow any)")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration should be logged
// as a concern at startup: any origin is allowed in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1               // Minimum 1 request allowed
	maxRateLimitRequests = 100000          // Maximum 100k requests per window
	minRateLimitWindow   = 1 * time.Second // Minimum 1 second window
	maxRateLimitWindow   = 1 * time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if err := c.validateRateLimitRequests(); err != nil {
		return err
	}
	return c.validateRateLimitWindow()
}

// validateRateLimitRequests validates the rate limit requests value
func (c *Config) validateRateLimitRequests() error {
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	return nil
}

// validateRateLimitWindow validates the rate limit window value
func (c *Config) validateRateLimitWindow() error {
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if err := c.validateLogLevel(); err != nil {
		return err
	}
	return c.validateLogFormat()
}

// validateLogLevel validates the log level configuration
func (c *Config) validateLogLevel() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	return nil
}

// validateLogFormat validates the log format configuration
func (c *Config) validateLogFormat() error {
	if c.Logging.Format == "" {
		return nil
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
