// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package api provides the HTTP interface of the recommendation service.

Routing uses chi. Every JSON response is wrapped in models.APIResponse:

	{
	  "status": "success",
	  "data": { ... },
	  "metadata": {"timestamp": "...", "request_id": "..."}
	}

Errors carry a machine-readable code (see models.APIError) and are mapped
from engine errors in one place, respondEngineError.

Endpoints:

	GET  /health, /health/live, /health/ready     service health
	POST /predict, /api/v1/predict                soil type + season mode
	POST /api/v1/predict/environment              raw parameter mode
	GET  /model-info, /supported-values           model and input metadata
	GET  /api/v1/locations                        known price model locations
	GET  /api/v1/history, /api/v1/history/{id}    recorded recommendations
	GET  /api/v1/stats                            engine and request stats
	GET  /metrics                                 Prometheus metrics

The unversioned routes keep the paths existing clients already call; the
/api/v1 routes are the same handlers under the versioned prefix.

Middleware order (outermost first): request ID, real IP, panic recovery,
access log, CORS, security headers, Prometheus, performance monitor and a
per-IP rate limit on the API groups.
*/
package api
