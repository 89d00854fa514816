// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultGCInterval = 10 * time.Minute

// RecorderRunner is the part of history.Recorder the service needs.
type RecorderRunner interface {
	Run(ctx context.Context) error
}

// HistoryRecorderService runs the Watermill router that persists prediction
// history. Run blocks until ctx is canceled; a router failure is returned
// so the supervisor restarts it with backoff.
type HistoryRecorderService struct {
	recorder RecorderRunner
	logger   zerolog.Logger
}

func NewHistoryRecorderService(recorder RecorderRunner, logger zerolog.Logger) *HistoryRecorderService {
	return &HistoryRecorderService{
		recorder: recorder,
		logger:   logger.With().Str("service", "history-recorder").Logger(),
	}
}

// Serve implements suture.Service.
func (s *HistoryRecorderService) Serve(ctx context.Context) error {
	s.logger.Debug().Msg("History recorder starting")
	err := s.recorder.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("History recorder stopped")
	}
	return err
}

func (s *HistoryRecorderService) String() string {
	return "history-recorder"
}

// GarbageCollector is satisfied by history.Store.
type GarbageCollector interface {
	RunGC() error
}

// HistoryGCService periodically reclaims BadgerDB value log space.
type HistoryGCService struct {
	store    GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
}

// NewHistoryGCService creates the GC loop. A non-positive interval falls
// back to 10m.
func NewHistoryGCService(store GarbageCollector, interval time.Duration, logger zerolog.Logger) *HistoryGCService {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	return &HistoryGCService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "history-gc").Logger(),
	}
}

// Serve implements suture.Service. GC errors are logged, not returned.
func (s *HistoryGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.store.RunGC(); err != nil {
				s.logger.Warn().Err(err).Msg("History GC failed")
			}
		}
	}
}

func (s *HistoryGCService) String() string {
	return "history-gc"
}
