// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package cache provides a generic, thread-safe LRU cache with optional TTL.
//
// The recommendation engine keys results by the normalized request and
// stores them here; a bundle never changes once published, so entries only
// leave by eviction or expiry.
//
//	c := cache.NewLRU[*recommend.Result](5000, 10*time.Minute)
//	c.Add(key, res)
//	if res, ok := c.Get(key); ok { ... }
package cache
