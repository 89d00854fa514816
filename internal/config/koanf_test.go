// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Recommend.TopK != 3 {
		t.Errorf("Recommend.TopK = %d, want 3", cfg.Recommend.TopK)
	}
	if cfg.Recommend.PriceWeight != 0.6 || cfg.Recommend.SuitabilityWeight != 0.4 {
		t.Errorf("weights = %v/%v, want 0.6/0.4", cfg.Recommend.PriceWeight, cfg.Recommend.SuitabilityWeight)
	}
	if cfg.Recommend.SuitabilityFloor != 0.01 {
		t.Errorf("Recommend.SuitabilityFloor = %v, want 0.01", cfg.Recommend.SuitabilityFloor)
	}
	if cfg.Recommend.LoadRetryInterval != 30*time.Second {
		t.Errorf("Recommend.LoadRetryInterval = %v, want 30s", cfg.Recommend.LoadRetryInterval)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should be true by default")
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformation
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"LOG_FORMAT", "logging.format"},
		{"MODEL_PATH", "recommend.model_path"},
		{"MODEL_LOAD_RETRY_INTERVAL", "recommend.load_retry_interval"},
		{"TOP_K", "recommend.top_k"},
		{"PRICE_WEIGHT", "recommend.price_weight"},
		{"SUITABILITY_WEIGHT", "recommend.suitability_weight"},
		{"HISTORY_ENABLED", "history.enabled"},
		{"HISTORY_PATH", "history.path"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"model_path", "recommend.model_path"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := envTransformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	defer func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	}()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("test: true"), 0o644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom_config.yaml")
		if err := os.WriteFile(customPath, []byte("test: true"), 0o644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		defer os.Remove(customPath)

		t.Setenv(ConfigPathEnvVar, customPath)
		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// isolateConfigFile points CONFIG_PATH at a path that does not exist and
// moves into an empty directory so no stray config.yaml is picked up.
func isolateConfigFile(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
}

// TestLoadWithKoanfEnvVars verifies environment variables are loaded
func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateConfigFile(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MODEL_PATH", "/models/bundle.json")
	t.Setenv("TOP_K", "5")
	t.Setenv("PRICE_WEIGHT", "0.7")
	t.Setenv("SUITABILITY_WEIGHT", "0.3")
	t.Setenv("HISTORY_ENABLED", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.ModelPath != "/models/bundle.json" {
		t.Errorf("Recommend.ModelPath = %q", cfg.Recommend.ModelPath)
	}
	if cfg.Recommend.TopK != 5 {
		t.Errorf("Recommend.TopK = %d, want 5", cfg.Recommend.TopK)
	}
	if cfg.Recommend.PriceWeight != 0.7 || cfg.Recommend.SuitabilityWeight != 0.3 {
		t.Errorf("weights = %v/%v, want 0.7/0.3", cfg.Recommend.PriceWeight, cfg.Recommend.SuitabilityWeight)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled should be false")
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
	if cfg.Security.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want 30s", cfg.Security.RateLimitWindow)
	}
}

// TestLoadWithKoanfEnvOverridesFile verifies precedence: env > file > defaults
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	isolateConfigFile(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8080
logging:
  level: warn
  format: console
recommend:
  model_path: /srv/models/crop.json.gz
  top_k: 4
history:
  path: /srv/history
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want warn/console (file)", cfg.Logging)
	}
	if cfg.Recommend.ModelPath != "/srv/models/crop.json.gz" {
		t.Errorf("Recommend.ModelPath = %q (file)", cfg.Recommend.ModelPath)
	}
	if cfg.Recommend.TopK != 4 {
		t.Errorf("Recommend.TopK = %d, want 4 (file)", cfg.Recommend.TopK)
	}
	if cfg.Recommend.MaxK != 50 {
		t.Errorf("Recommend.MaxK = %d, want 50 (default)", cfg.Recommend.MaxK)
	}
	if cfg.History.Path != "/srv/history" {
		t.Errorf("History.Path = %q (file)", cfg.History.Path)
	}
}

// TestLoadWithKoanfValidation verifies invalid env values are rejected
func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad port", map[string]string{"HTTP_PORT": "70000"}, "HTTP_PORT"},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"negative weight", map[string]string{"PRICE_WEIGHT": "-0.5"}, "PRICE_WEIGHT"},
		{"zero top k", map[string]string{"TOP_K": "0"}, "TOP_K"},
		{"history without path", map[string]string{"HISTORY_PATH": ""}, "HISTORY_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigFile(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %s", err, tt.wantErr)
			}
		})
	}
}
