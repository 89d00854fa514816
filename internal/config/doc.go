// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package config provides centralized configuration management for Cropwise.

Configuration is loaded with koanf in three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then ./config.yaml, ./config.yml,
    /etc/cropwise/config.yaml, /etc/cropwise/config.yml
 3. Environment variables

# Sections

  - server: listen host/port, request timeout, environment
  - logging: zerolog level, format, caller
  - recommend: bundle location, load retry interval, ranking and blend defaults, result cache
  - history: BadgerDB path, retention, GC interval, write breaker and retry policy
  - security: CORS origins and per-IP rate limiting

# Environment Variables

Only the variables listed in envMappings are read; anything else in the
environment is ignored. Common ones:

  - HTTP_PORT (or PORT), HTTP_HOST, ENVIRONMENT
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - MODEL_PATH, MODEL_STORE_DIR, MODEL_NAME, MODEL_LOAD_RETRY_INTERVAL
  - TOP_K, MAX_K, PRICE_WEIGHT, SUITABILITY_WEIGHT, SUITABILITY_FLOOR
  - HISTORY_ENABLED, HISTORY_PATH, HISTORY_RETENTION
  - CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}

Validation errors name the environment variable to fix, for example
"TOP_K must be at least 1".
*/
package config
