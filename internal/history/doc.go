// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package history keeps a record of served recommendations.
//
// Recording is asynchronous. The HTTP handler hands each successful result
// to a Publisher, which puts a JSON message on an in-process Watermill
// GoChannel topic and returns immediately. A Recorder consumes the topic
// through a Watermill router (panic recovery and retry middleware) and
// writes records to a BadgerDB Store behind a circuit breaker, so a slow or
// failing disk never delays a recommendation.
//
// Records expire after the configured retention. Keys are ordered by
// creation time so Recent can walk them newest first:
//
//	rec:<unix-nanos, 20 digits>:<id>  -> JSON record
//	idx:<id>                          -> rec key
//
// Example wiring:
//
//	store, err := history.Open(history.StoreConfig{Path: "/data/history", Retention: 90 * 24 * time.Hour})
//	bus := history.NewBus(wmLogger)
//	pub := history.NewPublisher(bus, logger)
//	rec, err := history.NewRecorder(history.DefaultRecorderConfig(), bus, store, wmLogger, logger)
//	tree.AddMessagingService(services.NewRecorderService(rec))
package history
