// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cropwise/internal/logging"
)

func TestRequestLogger(t *testing.T) {
	prevLogger := logging.Logger()
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetLogger(prevLogger)
		zerolog.SetGlobalLevel(prevLevel)
	})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
	}{
		{"success", "/api/v1/predict", http.StatusOK, "info"},
		{"client error", "/api/v1/predict", http.StatusBadRequest, "warn"},
		{"server error", "/api/v1/predict", http.StatusInternalServerError, "error"},
		{"probe", "/health", http.StatusOK, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logging.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

			r := chi.NewRouter()
			r.Use(RequestID, RequestLogger)
			r.Get(tt.path, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(RequestIDHeader, "req-1")
			r.ServeHTTP(httptest.NewRecorder(), req)

			line := strings.TrimSpace(buf.String())
			var entry map[string]any
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("access log is not JSON: %v (%q)", err, line)
			}

			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["request_id"] != "req-1" {
				t.Errorf("request_id = %v, want req-1", entry["request_id"])
			}
			if entry["route"] != tt.path {
				t.Errorf("route = %v, want %s", entry["route"], tt.path)
			}
			if int(entry["status"].(float64)) != tt.status {
				t.Errorf("status = %v, want %d", entry["status"], tt.status)
			}
		})
	}
}
