// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cropwise/internal/metrics"
)

// RecordWriter is the storage the recorder writes to.
// Satisfied by *Store.
type RecordWriter interface {
	Put(ctx context.Context, rec *Record) error
}

// RecorderConfig holds configuration for the recorder router.
type RecorderConfig struct {
	// Topic to consume. Default: TopicRecorded.
	Topic string

	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	Breaker BreakerConfig
}

// DefaultRecorderConfig returns production defaults for the recorder.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Topic:                TopicRecorded,
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		RetryMultiplier:      2.0,
		Breaker:              DefaultBreakerConfig(),
	}
}

// Recorder consumes published records and writes them to storage.
//
// Each Run builds a fresh Watermill router, so a supervisor can restart a
// recorder whose router stopped. Middleware, outermost first:
//   - drop: a message that still fails after retries is logged and acked,
//     so one bad write cannot block the topic
//   - Recoverer: panics become errors
//   - Retry: exponential backoff for transient store failures
type Recorder struct {
	config     RecorderConfig
	subscriber message.Subscriber
	writer     RecordWriter
	breaker    *gobreaker.CircuitBreaker[interface{}]
	wmLogger   watermill.LoggerAdapter
	logger     zerolog.Logger

	mu     sync.Mutex
	router *message.Router
}

// NewRecorder creates a recorder reading from sub and writing to w.
//
//nolint:gocritic // cfg and logger passed by value, copied into the recorder
func NewRecorder(cfg RecorderConfig, sub message.Subscriber, w RecordWriter, wmLogger watermill.LoggerAdapter, logger zerolog.Logger) (*Recorder, error) {
	if sub == nil {
		return nil, errors.New("subscriber is required")
	}
	if w == nil {
		return nil, errors.New("record writer is required")
	}
	if wmLogger == nil {
		wmLogger = watermill.NopLogger{}
	}
	if cfg.Topic == "" {
		cfg.Topic = TopicRecorded
	}

	logger = logger.With().Str("component", "history-recorder").Logger()
	return &Recorder{
		config:     cfg,
		subscriber: sub,
		writer:     w,
		breaker:    newBreaker(cfg.Breaker, logger),
		wmLogger:   wmLogger,
		logger:     logger,
	}, nil
}

func (r *Recorder) newRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: r.config.CloseTimeout}, r.wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(r.dropAfterRetries)
	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      r.config.RetryMaxRetries,
		InitialInterval: r.config.RetryInitialInterval,
		MaxInterval:     r.config.RetryMaxInterval,
		Multiplier:      r.config.RetryMultiplier,
		Logger:          r.wmLogger,
	}
	router.AddMiddleware(retry.Middleware)

	router.AddConsumerHandler("history-recorder", r.config.Topic, r.subscriber, r.handle)
	return router, nil
}

// Run consumes messages until ctx is canceled.
func (r *Recorder) Run(ctx context.Context) error {
	router, err := r.newRouter()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.router = router
	r.mu.Unlock()

	return router.Run(ctx)
}

// WaitRunning blocks until the current router is subscribed or ctx ends.
func (r *Recorder) WaitRunning(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		r.mu.Lock()
		router := r.router
		r.mu.Unlock()

		if router != nil {
			select {
			case <-router.Running():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops the current router.
func (r *Recorder) Close() error {
	r.mu.Lock()
	router := r.router
	r.mu.Unlock()
	if router == nil {
		return nil
	}
	return router.Close()
}

// BreakerState returns the store circuit breaker state.
func (r *Recorder) BreakerState() string {
	return r.breaker.State().String()
}

func (r *Recorder) handle(msg *message.Message) error {
	var rec Record
	if err := json.Unmarshal(msg.Payload, &rec); err != nil {
		metrics.RecordHistory("persist", err)
		r.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed history message")
		return nil
	}

	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.writer.Put(msg.Context(), &rec)
	})
	metrics.RecordHistory("persist", err)

	if errors.Is(err, ErrInvalid) {
		r.logger.Error().Str("record_id", rec.ID).Msg("dropping invalid history record")
		return nil
	}
	return err
}

func (r *Recorder) dropAfterRetries(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		out, err := h(msg)
		if err != nil {
			r.logger.Error().Err(err).
				Str("record_id", msg.Metadata.Get(MetadataRecordID)).
				Str("request_id", msg.Metadata.Get(MetadataRequestID)).
				Msg("history record dropped after retries")
			return nil, nil
		}
		return out, nil
	}
}
