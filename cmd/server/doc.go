// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package main is the entry point for the Cropwise server.

Cropwise answers "which crop should I plant here" for a set of soil and
weather readings. A suitability classifier ranks the crops the conditions
support, a price model or a table of average prices values them, and the
two scores are blended into a top-K recommendation served over HTTP.

# Application Architecture

	RootSupervisor ("cropwise")
	├── ModelSupervisor ("model-layer")
	│   └── Bundle loader (retries until the model bundle is published)
	├── HistorySupervisor ("history-layer")
	│   ├── History recorder (Watermill router into BadgerDB)
	│   └── History GC (BadgerDB value log GC)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Engine: model handle, scorer and result cache
 4. History (optional): BadgerDB store and in-process Watermill bus
 5. Supervisor Tree: Suture v4 process supervision
 6. HTTP Server: chi router with middleware stack

The HTTP server starts before the bundle is loaded. Until then /health
reports the last load error and prediction endpoints answer 503.

# Configuration

	# Server
	PORT=8000
	HTTP_HOST=0.0.0.0
	ENVIRONMENT=production

	# Model
	MODEL_PATH=models/crop_bundle.json.gz   # standalone bundle file
	MODEL_STORE_DIR=/data/models            # used when MODEL_PATH is empty
	MODEL_NAME=crop
	TOP_K=3
	PRICE_WEIGHT=0.6
	SUITABILITY_WEIGHT=0.4

	# History
	HISTORY_ENABLED=true
	HISTORY_PATH=/data/history
	HISTORY_RETENTION=2160h

	# Security
	CORS_ORIGINS=https://farm.example.com
	RATE_LIMIT_REQUESTS=100
	RATE_LIMIT_WINDOW=1m

	# Logging
	LOG_LEVEL=info
	LOG_FORMAT=json

When a config file is in use it is watched; changes to the log level apply
without a restart. Other settings require one.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
server with a 10s drain, closes the history router, then the history
store is closed.
*/
package main
