// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Recommendation Metrics:
  - crop_recommendations_total: Requests by outcome (counter)
  - crop_recommendation_duration_seconds: Engine latency (histogram)
  - crop_recommendation_candidates: Crops above the suitability floor (histogram)
  - crop_price_resolutions_total: Price resolutions by source strategy (counter)

Model Metrics:
  - crop_model_bundle_loaded: 1 when serving (gauge)
  - crop_model_bundle_load_attempts_total: Load attempts by result (counter)

History Metrics:
  - crop_history_records_total: Publish/persist steps by result (counter)
  - crop_history_gc_runs_total: Value log GC runs (counter)
*/
package metrics
