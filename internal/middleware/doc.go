// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package middleware provides the HTTP middleware shared by every route.

All middleware use the standard func(http.Handler) http.Handler shape so
they mount directly on a chi router:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)

Components:

  - RequestID: accepts or generates X-Request-ID and stores it in the context
  - RequestLogger: one zerolog access line per request
  - PrometheusMetrics: request count, latency and in-flight gauge
  - PerformanceMonitor: sliding window of recent requests with percentiles

Metric and monitor labels use the chi route pattern rather than the raw
path, so /api/v1/history/{id} is one series regardless of the ID. Because
chi resolves the pattern while routing, these middleware read it after the
downstream handler returns.
*/
package middleware
