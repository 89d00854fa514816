// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cropwise/internal/metrics"
	"github.com/tomtom215/cropwise/internal/recommend"
	"github.com/tomtom215/cropwise/internal/recommend/storage"
)

const defaultLoadRetryInterval = 5 * time.Second

// BundleLoader produces the model bundle and its metadata.
type BundleLoader func(ctx context.Context) (*recommend.Bundle, *storage.Metadata, error)

// FileBundleLoader loads a standalone bundle file.
func FileBundleLoader(path string) BundleLoader {
	return func(ctx context.Context) (*recommend.Bundle, *storage.Metadata, error) {
		return storage.LoadFile(ctx, path)
	}
}

// StoreBundleLoader loads the latest version of name from a versioned store.
func StoreBundleLoader(store *storage.Store, name string) BundleLoader {
	return func(ctx context.Context) (*recommend.Bundle, *storage.Metadata, error) {
		return store.Load(ctx, name, 0)
	}
}

// BundleLoaderService fills a ModelHandle in the background.
//
// The API starts serving immediately and answers 503 until the bundle is
// published. Failed attempts are recorded on the handle so /health can
// report them, then retried after retryInterval. Once published the
// service idles until shutdown; a supervisor restart never reloads.
type BundleLoaderService struct {
	handle        *recommend.ModelHandle
	load          BundleLoader
	retryInterval time.Duration
	logger        zerolog.Logger
}

// NewBundleLoaderService creates the loader. A non-positive retryInterval
// falls back to 5s.
func NewBundleLoaderService(handle *recommend.ModelHandle, load BundleLoader, retryInterval time.Duration, logger zerolog.Logger) *BundleLoaderService {
	if retryInterval <= 0 {
		retryInterval = defaultLoadRetryInterval
	}
	return &BundleLoaderService{
		handle:        handle,
		load:          load,
		retryInterval: retryInterval,
		logger: logger.With().
			Str("service", "bundle-loader").
			Str("source", handle.Source()).
			Logger(),
	}
}

// Serve implements suture.Service.
func (s *BundleLoaderService) Serve(ctx context.Context) error {
	for attempt := 1; !s.handle.Ready(); attempt++ {
		err := s.loadOnce(ctx)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.RecordModelLoadAttempt(err)
		if err == nil {
			break
		}
		s.handle.SetLoadError(err)
		s.logger.Error().Err(err).
			Int("attempt", attempt).
			Dur("retry_in", s.retryInterval).
			Msg("Failed to load model bundle")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryInterval):
		}
	}

	<-ctx.Done()
	return ctx.Err()
}

func (s *BundleLoaderService) loadOnce(ctx context.Context) (err error) {
	// A malformed bundle must not take down the supervisor tree.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while loading bundle: %v", r)
		}
	}()

	start := time.Now()
	bundle, meta, err := s.load(ctx)
	if err != nil {
		return err
	}
	if !s.handle.Publish(bundle) {
		// Another loader won; the handle is ready either way.
		return nil
	}
	metrics.SetModelLoaded(true)

	ev := s.logger.Info().
		Int("crops", bundle.Crops().Len()).
		Dur("duration", time.Since(start))
	if meta != nil {
		ev = ev.Str("name", meta.Name).
			Int("version", meta.Version).
			Time("trained_at", meta.TrainedAt).
			Str("checksum", meta.Checksum)
	}
	ev.Msg("Model bundle loaded")
	return nil
}

func (s *BundleLoaderService) String() string {
	return "bundle-loader"
}
