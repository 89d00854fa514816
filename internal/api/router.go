// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cropwise/internal/middleware"
	"github.com/tomtom215/cropwise/internal/models"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mwConfig uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(APISecurityHeaders())
	r.Use(middleware.PrometheusMetrics)
	if router.handler.perfMon != nil {
		r.Use(router.handler.perfMon.Middleware)
	}
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// One limiter instance so the legacy and versioned routes share a
	// budget per client.
	apiLimit := router.chiMiddleware.RateLimit()
	healthLimit := router.chiMiddleware.RateLimitHealth()

	// ========================
	// Health Endpoints
	// ========================
	health := func(r chi.Router) {
		r.Use(healthLimit)
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	}
	r.Route("/health", health)
	r.Route("/api/v1/health", health)

	// ========================
	// Unversioned Endpoints
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(apiLimit)
		r.Post("/predict", router.handler.Predict)
		r.Get("/model-info", router.handler.ModelInfo)
		r.Get("/supported-values", router.handler.SupportedValues)
	})

	// ========================
	// Versioned API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiLimit)

		r.Post("/predict", router.handler.Predict)
		r.Post("/predict/environment", router.handler.PredictEnvironment)
		r.Get("/model-info", router.handler.ModelInfo)
		r.Get("/supported-values", router.handler.SupportedValues)
		r.Get("/locations", router.handler.Locations)
		r.Get("/stats", router.handler.Stats)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", router.handler.History)
			r.Get("/{id}", router.handler.HistoryRecord)
		})
	})

	// ========================
	// Prometheus Metrics
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
