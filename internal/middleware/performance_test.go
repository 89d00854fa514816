// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestNewPerformanceMonitor(t *testing.T) {
	tests := []struct {
		name       string
		maxMetrics int
		want       int
	}{
		{"explicit capacity", 10, 10},
		{"zero falls back", 0, 1000},
		{"negative falls back", -5, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPerformanceMonitor(tt.maxMetrics)
			if pm.maxMetrics != tt.want {
				t.Errorf("maxMetrics = %d, want %d", pm.maxMetrics, tt.want)
			}
		})
	}
}

func TestPerformanceMonitor_SlidingWindow(t *testing.T) {
	pm := NewPerformanceMonitor(3)

	for i := 1; i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{
			Route:      "/predict",
			Method:     http.MethodPost,
			DurationMS: int64(i * 10),
			StatusCode: http.StatusOK,
		})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 {
		t.Fatalf("window size = %d, want 3", len(recent))
	}
	if recent[0].DurationMS != 30 || recent[2].DurationMS != 50 {
		t.Errorf("window = %+v, want durations 30..50", recent)
	}

	if total := pm.TotalRequests()["POST /predict"]; total != 5 {
		t.Errorf("lifetime total = %d, want 5", total)
	}
}

func TestPerformanceMonitor_GetStats(t *testing.T) {
	pm := NewPerformanceMonitor(100)

	for i := 1; i <= 10; i++ {
		pm.RecordRequest(&RequestMetrics{
			Route:      "/api/v1/predict",
			Method:     http.MethodPost,
			DurationMS: int64(i),
			StatusCode: http.StatusOK,
		})
	}
	pm.RecordRequest(&RequestMetrics{
		Route:      "/health",
		Method:     http.MethodGet,
		DurationMS: 1,
		StatusCode: http.StatusServiceUnavailable,
	})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}

	predict := stats[0]
	if predict.Endpoint != "POST /api/v1/predict" {
		t.Fatalf("busiest endpoint = %q", predict.Endpoint)
	}
	if predict.RequestCount != 10 {
		t.Errorf("RequestCount = %d, want 10", predict.RequestCount)
	}
	if predict.MinDuration != 1 || predict.MaxDuration != 10 {
		t.Errorf("min/max = %d/%d, want 1/10", predict.MinDuration, predict.MaxDuration)
	}
	if predict.AvgDuration != 5.5 {
		t.Errorf("AvgDuration = %v, want 5.5", predict.AvgDuration)
	}
	if predict.P50Duration != 5 {
		t.Errorf("P50Duration = %d, want 5", predict.P50Duration)
	}

	if stats[1].ErrorCount != 1 {
		t.Errorf("health ErrorCount = %d, want 1", stats[1].ErrorCount)
	}
}

func TestPerformanceMonitor_GetRecentMetricsEmpty(t *testing.T) {
	pm := NewPerformanceMonitor(5)
	if got := pm.GetRecentMetrics(3); len(got) != 0 {
		t.Errorf("GetRecentMetrics on empty monitor = %d entries", len(got))
	}
	if got := pm.GetRecentMetrics(-1); got == nil {
		t.Error("GetRecentMetrics(-1) returned nil, want empty slice")
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	pm := NewPerformanceMonitor(10)
	pm.SetSlowThreshold(time.Nanosecond)

	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Post("/api/v1/predict", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/predict", nil))

	recent := pm.GetRecentMetrics(1)
	if len(recent) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(recent))
	}
	if recent[0].Route != "/api/v1/predict" {
		t.Errorf("Route = %q", recent[0].Route)
	}
	if recent[0].StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", recent[0].StatusCode)
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []int64
		p      float64
		want   int64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []int64{7}, 0.99, 7},
		{"p0", []int64{1, 2, 3, 4}, 0, 1},
		{"p100", []int64{1, 2, 3, 4}, 1, 4},
		{"p50 even", []int64{1, 2, 3, 4}, 0.5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.sorted, tt.p); got != tt.want {
				t.Errorf("percentile = %d, want %d", got, tt.want)
			}
		})
	}
}
