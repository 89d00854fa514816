// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package config

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "HTTP_TIMEOUT"},
		{"unknown environment", func(c *Config) { c.Server.Environment = "qa" }, "ENVIRONMENT"},
		{"no model source", func(c *Config) {
			c.Recommend.ModelPath = ""
			c.Recommend.ModelStoreDir = ""
		}, "MODEL_PATH"},
		{"store without name", func(c *Config) {
			c.Recommend.ModelPath = ""
			c.Recommend.ModelStoreDir = "/models"
			c.Recommend.ModelName = ""
		}, "MODEL_NAME"},
		{"store with name", func(c *Config) {
			c.Recommend.ModelPath = ""
			c.Recommend.ModelStoreDir = "/models"
		}, ""},
		{"short retry", func(c *Config) { c.Recommend.LoadRetryInterval = time.Millisecond }, "MODEL_LOAD_RETRY_INTERVAL"},
		{"max k below top k", func(c *Config) { c.Recommend.MaxK = 2 }, "MAX_K"},
		{"NaN weight", func(c *Config) { c.Recommend.SuitabilityWeight = math.NaN() }, "SUITABILITY_WEIGHT"},
		{"weights need not sum to one", func(c *Config) {
			c.Recommend.PriceWeight = 2
			c.Recommend.SuitabilityWeight = 0
		}, ""},
		{"floor of one", func(c *Config) { c.Recommend.SuitabilityFloor = 1 }, "SUITABILITY_FLOOR"},
		{"cache without ttl", func(c *Config) { c.Recommend.CacheTTL = 0 }, "RECOMMEND_CACHE_TTL"},
		{"disabled cache skips checks", func(c *Config) {
			c.Recommend.CacheEnabled = false
			c.Recommend.CacheTTL = 0
		}, ""},
		{"history without path", func(c *Config) { c.History.Path = "" }, "HISTORY_PATH"},
		{"in-memory history without path", func(c *Config) {
			c.History.Path = ""
			c.History.InMemory = true
		}, ""},
		{"disabled history skips checks", func(c *Config) {
			c.History.Enabled = false
			c.History.Path = ""
		}, ""},
		{"short gc interval", func(c *Config) { c.History.GCInterval = time.Second }, "HISTORY_GC_INTERVAL"},
		{"zero breaker threshold", func(c *Config) { c.History.BreakerThreshold = 0 }, "HISTORY_BREAKER_THRESHOLD"},
		{"no cors origins", func(c *Config) { c.Security.CORSOrigins = nil }, "CORS_ORIGINS"},
		{"rate limit too high", func(c *Config) { c.Security.RateLimitReqs = 200000 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit window too long", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, "RATE_LIMIT_WINDOW"},
		{"disabled rate limit skips checks", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"empty log format", func(c *Config) { c.Logging.Format = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want it to mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	cfg := defaultConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS in development should not warn")
	}
	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS in production should warn")
	}
	cfg.Security.CORSOrigins = []string{"https://farm.example"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8000}
	if got := s.Addr(); got != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8000", got)
	}
}
