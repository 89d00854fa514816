// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// scope is what a request carries: its ID and a logger that already has
// request_id attached.
type scope struct {
	requestID string
	logger    zerolog.Logger
}

type scopeKey struct{}

func scopeFrom(ctx context.Context) (*scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*scope)
	return s, ok
}

// GenerateRequestID returns a random UUID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID tags ctx with id. Loggers obtained through Ctx
// afterwards carry a request_id field.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	base := LoggerFromContext(ctx)
	return context.WithValue(ctx, scopeKey{}, &scope{
		requestID: id,
		logger:    base.With().Str("request_id", id).Logger(),
	})
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := scopeFrom(ctx); ok {
		return s.requestID
	}
	return ""
}

// ContextWithLogger makes logger the base for Ctx. An existing request ID
// is kept and attached to it.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	s := &scope{logger: logger}
	if prev, ok := scopeFrom(ctx); ok && prev.requestID != "" {
		s.requestID = prev.requestID
		s.logger = logger.With().Str("request_id", prev.requestID).Logger()
	}
	return context.WithValue(ctx, scopeKey{}, s)
}

// LoggerFromContext returns the request logger, or the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if s, ok := scopeFrom(ctx); ok {
		return s.logger
	}
	return Logger()
}

// Ctx is the usual way to log inside handlers and the engine.
//
//	logging.Ctx(ctx).Info().Str("soil_type", soil).Msg("recommendation served")
func Ctx(ctx context.Context) *zerolog.Logger {
	l := LoggerFromContext(ctx)
	return &l
}

// WithComponent derives a logger with a component field from the global one.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
