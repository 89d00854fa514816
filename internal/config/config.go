// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded by LoadWithKoanf.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	History   HistoryConfig   `koanf:"history"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds model loading and engine settings.
//
// Environment Variables:
//   - MODEL_PATH: bundle file loaded at startup (default: ./models/crop_bundle.json.gz)
//   - MODEL_STORE_DIR: versioned bundle store, used when MODEL_PATH is empty
//   - MODEL_NAME: bundle name inside the store (default: crop)
//   - MODEL_LOAD_RETRY_INTERVAL: delay between failed load attempts (default: 30s)
//   - TOP_K: default number of ranked crops (default: 3)
//   - MAX_K: upper bound for a requested top_k (default: 50)
//   - PRICE_WEIGHT / SUITABILITY_WEIGHT: default blend weights (default: 0.6 / 0.4)
//   - SUITABILITY_FLOOR: minimum probability kept for pricing (default: 0.01)
//   - RECOMMEND_CACHE_ENABLED / RECOMMEND_CACHE_TTL / RECOMMEND_CACHE_MAX_ENTRIES
type RecommendConfig struct {
	ModelPath         string        `koanf:"model_path"`
	ModelStoreDir     string        `koanf:"model_store_dir"`
	ModelName         string        `koanf:"model_name"`
	LoadRetryInterval time.Duration `koanf:"load_retry_interval"`

	TopK              int     `koanf:"top_k"`
	MaxK              int     `koanf:"max_k"`
	PriceWeight       float64 `koanf:"price_weight"`
	SuitabilityWeight float64 `koanf:"suitability_weight"`
	SuitabilityFloor  float64 `koanf:"suitability_floor"`

	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
}

// HistoryConfig holds prediction history settings.
// History is stored in BadgerDB and fed through an in-process message bus.
type HistoryConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`   // Testing and ephemeral deployments only
	Retention  time.Duration `koanf:"retention"`   // 0 keeps records forever
	GCInterval time.Duration `koanf:"gc_interval"` // Badger value log GC period
	SyncWrites bool          `koanf:"sync_writes"`

	// Circuit breaker around store writes.
	BreakerThreshold uint32        `koanf:"breaker_threshold"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout"`

	// Retry policy for failed history messages.
	MaxRetries      int           `koanf:"max_retries"`
	InitialInterval time.Duration `koanf:"initial_interval"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the host:port listen address.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
