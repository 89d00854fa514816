// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"sync"
	"sync/atomic"
)

// ModelHandle is the process-wide holder of the loaded bundle. A bundle is
// published at most once and never replaced, so readers only need an atomic
// load.
type ModelHandle struct {
	source string
	bundle atomic.Pointer[Bundle]

	mu      sync.RWMutex
	loadErr string
}

// NewModelHandle returns an empty handle for the bundle at source.
func NewModelHandle(source string) *ModelHandle {
	return &ModelHandle{source: source}
}

// Publish stores b if no bundle has been published yet. It reports whether
// b was stored.
func (h *ModelHandle) Publish(b *Bundle) bool {
	if b == nil {
		return false
	}
	if !h.bundle.CompareAndSwap(nil, b) {
		return false
	}
	h.mu.Lock()
	h.loadErr = ""
	h.mu.Unlock()
	return true
}

// SetLoadError records why loading failed. Ignored once a bundle is live.
func (h *ModelHandle) SetLoadError(err error) {
	if err == nil || h.Ready() {
		return
	}
	h.mu.Lock()
	h.loadErr = err.Error()
	h.mu.Unlock()
}

// LoadError returns the last recorded load failure, or "".
func (h *ModelHandle) LoadError() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loadErr
}

// Ready reports whether a bundle has been published.
func (h *ModelHandle) Ready() bool {
	return h.bundle.Load() != nil
}

// Bundle returns the published bundle or ErrModelNotReady.
func (h *ModelHandle) Bundle() (*Bundle, error) {
	if h == nil {
		return nil, ErrModelNotReady
	}
	b := h.bundle.Load()
	if b == nil {
		return nil, ErrModelNotReady
	}
	return b, nil
}

// Source returns where the bundle is loaded from.
func (h *ModelHandle) Source() string {
	return h.source
}
