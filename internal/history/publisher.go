// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package history

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cropwise/internal/metrics"
	"github.com/tomtom215/cropwise/internal/recommend"
)

// TopicRecorded carries records of served recommendations.
const TopicRecorded = "predictions.recorded"

// Metadata keys set on published messages.
const (
	MetadataRecordID  = "record_id"
	MetadataRequestID = "request_id"
)

// NewBus creates the in-process pub/sub that connects publishers to the
// recorder. Messages published while no recorder is subscribed are dropped.
func NewBus(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, logger)
}

// Publisher sends records to the recorder. A nil *Publisher is valid and
// discards everything, which is how disabled history is represented.
type Publisher struct {
	publisher message.Publisher
	topic     string
	logger    zerolog.Logger
}

// NewPublisher creates a publisher on TopicRecorded.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(pub message.Publisher, logger zerolog.Logger) *Publisher {
	return &Publisher{
		publisher: pub,
		topic:     TopicRecorded,
		logger:    logger.With().Str("component", "history").Logger(),
	}
}

// Publish sends one record.
func (p *Publisher) Publish(rec *Record) error {
	if p == nil {
		return nil
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		metrics.RecordHistory("publish", err)
		return fmt.Errorf("marshal record: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataRecordID, rec.ID)
	msg.Metadata.Set(MetadataRequestID, rec.RequestID)

	err = p.publisher.Publish(p.topic, msg)
	metrics.RecordHistory("publish", err)
	if err != nil {
		return fmt.Errorf("publish record: %w", err)
	}
	return nil
}

// RecordResult publishes a record for res. Failures are logged and never
// returned, so recording cannot fail a request.
func (p *Publisher) RecordResult(res *recommend.Result) {
	if p == nil || res == nil {
		return
	}
	rec := NewRecord(res)
	if err := p.Publish(rec); err != nil {
		p.logger.Warn().Err(err).
			Str("request_id", rec.RequestID).
			Msg("failed to record recommendation")
	}
}
