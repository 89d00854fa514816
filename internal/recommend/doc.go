// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package recommend implements the crop recommendation engine.
//
// # Architecture
//
// A request flows through a linear pipeline:
//
//   - Environment deriver: soil type and season become a 7-feature vector
//     (N, P, K, temperature, humidity, ph, rainfall)
//   - Suitability scorer: the scaled vector goes through the pretrained
//     classifier; crops below the suitability floor are dropped
//   - Price resolver: an ordered chain of price strategies, from the
//     location-specific regressor down to loose name matching
//   - Blender: min-max normalization and a weighted combined score
//   - Ranker: stable top-K, best crop by suitability, most profitable crop
//
// # Model Bundle
//
// All pretrained artifacts live in a single immutable Bundle. A ModelHandle
// publishes the bundle exactly once; until then every request fails with
// ErrModelNotReady. Nothing in the request path writes to the bundle, so
// concurrent requests need no locking.
//
// # Errors
//
//   - ErrInvalidCategory: unknown soil type or season (caller error)
//   - ErrModelNotReady: bundle absent or failed to load
//   - ErrEmptyCandidateSet: every crop fell below the suitability floor
//   - ErrInvalidEnvironment / ErrInvalidWeights: bad raw inputs
//
// Unknown locations and price model failures are not errors. They make the
// resolver fall through to the next strategy.
//
// # Usage
//
//	handle := recommend.NewModelHandle("models/bundle.json.gz")
//	handle.Publish(bundle)
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), handle, logger)
//	res, err := engine.Recommend(ctx, recommend.Request{
//	    SoilType: "Loamy",
//	    Season:   "Kharif",
//	    Location: recommend.Location{State: "Karnataka", District: "Belagavi", Market: "Belgaum"},
//	})
package recommend
