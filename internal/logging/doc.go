// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package logging provides centralized zerolog-based structured logging for Cropwise.
//
// A single global logger is configured once at startup and guarded by a
// RWMutex so it can be read from any goroutine. JSON output is the default;
// console output is available for local development.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:   "info",
//	    Format:  "json",
//	    Service: "cropwise",
//	})
//
//	logging.Info().Str("model_path", path).Msg("Bundle loaded")
//	logging.Error().Err(err).Msg("History store unavailable")
//
// # Components
//
// Long-lived components take a zerolog.Logger in their constructor and
// derive their own child:
//
//	logger := logging.WithComponent("engine")
//	engine, err := recommend.NewEngine(cfg, handle, logger)
//
// # Request Scope
//
// The HTTP middleware stores a request-scoped logger and request ID in the
// request context. Handlers log through Ctx so every line carries the
// request_id field:
//
//	logging.Ctx(r.Context()).Warn().Str("soil_type", soil).Msg("Unknown soil type")
//
// # slog Bridge
//
// Suture (via sutureslog) and Watermill both emit slog records.
// NewSlogHandler and NewSlogLogger route those records into zerolog so
// that supervisor and message router events share the same output and
// level filtering.
//
// # Thread Safety
//
// All package functions are safe for concurrent use. Init may be called
// again at runtime to reconfigure the logger.
package logging
