// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cropwise/internal/middleware"
	"github.com/tomtom215/cropwise/internal/models"
	"github.com/tomtom215/cropwise/internal/recommend"
	"github.com/tomtom215/cropwise/internal/recommend/estimator"
)

// testBundle builds a bundle whose classifier ignores its input and always
// returns probs for Rice, Maize and Cotton. Rice and Cotton have average
// prices; Cotton is also a known commodity for the location model.
func testBundle(t *testing.T, probs []float64) *recommend.Bundle {
	t.Helper()

	enc := func(classes ...string) *recommend.Encoder {
		e, err := recommend.NewEncoder(classes)
		if err != nil {
			t.Fatalf("NewEncoder(%v) error = %v", classes, err)
		}
		return e
	}

	scale := make([]float64, recommend.NumFeatures)
	for i := range scale {
		scale[i] = 1
	}

	b, err := recommend.NewBundle(recommend.BundleParts{
		Scaler: &estimator.StandardScaler{Mean: make([]float64, recommend.NumFeatures), Scale: scale},
		Encoders: recommend.EncoderSet{
			State:     enc("Karnataka", "Punjab"),
			District:  enc("Ludhiana", "Mysore"),
			Market:    enc("Khanna", "Mysore APMC"),
			Commodity: enc("Cotton", "Wheat"),
		},
		Classifier: &estimator.ForestClassifier{
			Classes:     len(probs),
			NumFeatures: recommend.NumFeatures,
			Trees: []estimator.Tree{{
				ChildrenLeft:  []int{-1},
				ChildrenRight: []int{-1},
				Feature:       []int{-2},
				Threshold:     []float64{-2},
				Value:         [][]float64{probs},
			}},
		},
		CropClasses: []string{"Rice", "Maize", "Cotton"},
		Regressor:   &estimator.RidgeRegressor{Coef: []float64{0, 0, 0, 100}, Intercept: 3000},
		Prices: []recommend.PriceEntry{
			{Crop: "Rice", Price: 2000},
			{Crop: "Cotton", Price: 1500},
		},
	})
	if err != nil {
		t.Fatalf("NewBundle() error = %v", err)
	}
	return b
}

// testHandlerOptions adjusts newTestHandler.
type testHandlerOptions struct {
	notReady  bool
	loadError error
	probs     []float64
	history   HistoryReader
	recorder  ResultRecorder
	config    HandlerConfig
}

func newTestHandler(t *testing.T, opts testHandlerOptions) *Handler {
	t.Helper()

	handle := recommend.NewModelHandle("models/test_bundle.json.gz")
	if opts.loadError != nil {
		handle.SetLoadError(opts.loadError)
	}
	if !opts.notReady {
		probs := opts.probs
		if probs == nil {
			probs = []float64{0.6, 0.3, 0.1}
		}
		handle.Publish(testBundle(t, probs))
	}

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), handle, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	return NewHandler(engine, opts.history, opts.recorder, middleware.NewPerformanceMonitor(100), opts.config)
}

func newTestServer(t *testing.T, h *Handler) http.Handler {
	t.Helper()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(h, cfg).Setup()
}

// envelope mirrors models.APIResponse with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func doRequest(t *testing.T, srv http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: response is not a JSON envelope: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

// captureRecorder collects recorded results.
type captureRecorder struct {
	mu      sync.Mutex
	results []*recommend.Result
}

func (c *captureRecorder) RecordResult(res *recommend.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
}

func (c *captureRecorder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}
