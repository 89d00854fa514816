// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tomtom215/cropwise/internal/models"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		opts       testHandlerOptions
		wantStatus string
		wantLoaded bool
		wantErr    string
	}{
		{
			name:       "models loaded",
			wantStatus: "healthy",
			wantLoaded: true,
		},
		{
			name:       "models missing",
			opts:       testHandlerOptions{notReady: true, loadError: errors.New("open models/test_bundle.json.gz: no such file or directory")},
			wantStatus: "unhealthy",
			wantErr:    "open models/test_bundle.json.gz: no such file or directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, newTestHandler(t, tt.opts))

			for _, path := range []string{"/health", "/api/v1/health"} {
				w, env := doRequest(t, srv, http.MethodGet, path, "")
				if w.Code != http.StatusOK {
					t.Fatalf("%s status = %d, want 200", path, w.Code)
				}

				var health models.HealthResponse
				decodeData(t, env, &health)

				if health.Status != tt.wantStatus || health.ModelsLoaded != tt.wantLoaded {
					t.Errorf("%s health = %+v", path, health)
				}
				if health.Version != DefaultVersion {
					t.Errorf("version = %q, want %q", health.Version, DefaultVersion)
				}
				if health.ModelPath != "models/test_bundle.json.gz" {
					t.Errorf("model_path = %q", health.ModelPath)
				}
				switch {
				case tt.wantErr == "" && health.ModelLoadError != nil:
					t.Errorf("model_load_error = %q, want null", *health.ModelLoadError)
				case tt.wantErr != "" && (health.ModelLoadError == nil || *health.ModelLoadError != tt.wantErr):
					t.Errorf("model_load_error = %v, want %q", health.ModelLoadError, tt.wantErr)
				}
				if health.HistoryEnabled {
					t.Error("history_enabled = true without a history store")
				}
			}
		})
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name     string
		notReady bool
		wantCode int
	}{
		{"ready", false, http.StatusOK},
		{"not ready", true, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, newTestHandler(t, testHandlerOptions{notReady: tt.notReady}))
			w, env := doRequest(t, srv, http.MethodGet, "/health/ready", "")
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if env.Status != "success" {
				t.Errorf("envelope status = %q", env.Status)
			}
		})
	}
}

func TestHealthLive(t *testing.T) {
	srv := newTestServer(t, newTestHandler(t, testHandlerOptions{notReady: true}))

	w, env := doRequest(t, srv, http.MethodGet, "/health/live", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]interface{}
	decodeData(t, env, &body)
	if body["status"] != "alive" {
		t.Errorf("status = %v, want alive", body["status"])
	}
}
