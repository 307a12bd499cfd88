// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package events

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/soundhub-friends/internal/config"
	"github.com/tomtom215/soundhub-friends/internal/logging"
	"github.com/tomtom215/soundhub-friends/internal/metrics"
	"github.com/tomtom215/soundhub-friends/internal/models"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

// OriginTopicKey is the metadata key naming the topic an error reply answers.
const OriginTopicKey = "origin_topic"

// Event outcomes recorded in friends_events_processed_total.
const (
	OutcomeReplied     = "replied"
	OutcomeErrorReply  = "error_reply"
	OutcomeMalformed   = "malformed"
	OutcomeInvalidated = "invalidated"
	OutcomeApplied     = "applied"
	OutcomeFailed      = "failed"
)

// Recommender is the part of recommend.Service the responder calls.
type Recommender interface {
	FindPotentialFriends(ctx context.Context, userID uuid.UUID) (recommend.NeighborResult, error)
}

// Invalidator drops a cached snapshot.
type Invalidator interface {
	Invalidate()
}

// Responder serves recommendation requests from the request topic.
type Responder struct {
	router    *message.Router
	publisher message.Publisher
	service   Recommender
	cache     Invalidator
	writer    PreferenceWriter
	cfg       config.EventsConfig
	logger    zerolog.Logger
}

// NewResponder registers the request and preferences handlers on a new
// watermill router. cache may be nil, in which case preference updates are
// only counted. writer may be nil when the preference store is owned by
// another service; update payloads are then not applied locally.
func NewResponder(cfg config.EventsConfig, ps *PubSub, service Recommender, cache Invalidator, writer PreferenceWriter, logger zerolog.Logger) (*Responder, error) {
	wmLogger := logging.NewWatermillLoggerWithLogger(logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	if cfg.RetryCount > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryCount,
			InitialInterval: cfg.RetryInterval,
			MaxInterval:     10 * cfg.RetryInterval,
			Multiplier:      2.0,
			Logger:          wmLogger,
		}
		router.AddMiddleware(retry.Middleware)
	}

	r := &Responder{
		router:    router,
		publisher: ps.Publisher,
		service:   service,
		cache:     cache,
		writer:    writer,
		cfg:       cfg,
		logger:    logger,
	}

	router.AddConsumerHandler("recommendation_requests", cfg.RequestTopic, ps.Subscriber, r.handleRequest)
	if cfg.PreferencesTopic != "" {
		router.AddConsumerHandler("preference_updates", cfg.PreferencesTopic, ps.Subscriber, r.handlePreferencesUpdated)
	}

	return r, nil
}

// Run processes messages until ctx is done or Close is called.
func (r *Responder) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (r *Responder) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router, waiting up to CloseTimeout for in-flight messages.
func (r *Responder) Close() error {
	return r.router.Close()
}

func (r *Responder) handleRequest(msg *message.Message) error {
	correlationID := middleware.MessageCorrelationID(msg)
	if correlationID == "" {
		correlationID = msg.UUID
	}
	ctx := logging.ContextWithCorrelationID(msg.Context(), correlationID)
	log := r.logger.With().Str("correlation_id", correlationID).Logger()

	var userID uuid.UUID
	if err := json.Unmarshal(msg.Payload, &userID); err != nil {
		log.Warn().Err(err).Msg("malformed recommendation request")
		metrics.RecordEvent(r.cfg.RequestTopic, OutcomeMalformed)
		return r.publishError(correlationID, models.ErrorDetail{
			Code:   http.StatusBadRequest,
			Detail: "payload must be a JSON user id string",
		})
	}

	started := time.Now()
	friends, err := r.service.FindPotentialFriends(ctx, userID)
	if err != nil {
		reply := errorReply(err)
		if reply.Code >= 500 {
			log.Error().Err(err).Str("user_id", userID.String()).Msg("recommendation request failed")
		} else {
			log.Info().Err(err).Str("user_id", userID.String()).Msg("recommendation request rejected")
		}
		metrics.RecordEvent(r.cfg.RequestTopic, OutcomeErrorReply)
		return r.publishError(correlationID, reply)
	}
	if friends == nil {
		friends = recommend.NeighborResult{}
	}

	payload, err := json.Marshal(friends)
	if err != nil {
		return fmt.Errorf("marshal neighbors: %w", err)
	}
	reply := message.NewMessage(watermill.NewUUID(), payload)
	middleware.SetCorrelationID(correlationID, reply)
	if err := r.publisher.Publish(r.cfg.ResponseTopic, reply); err != nil {
		metrics.RecordEvent(r.cfg.RequestTopic, OutcomeFailed)
		return fmt.Errorf("publish response: %w", err)
	}

	log.Debug().
		Str("user_id", userID.String()).
		Int("neighbors", len(friends)).
		Dur("elapsed", time.Since(started)).
		Msg("recommendation request answered")
	metrics.RecordEvent(r.cfg.RequestTopic, OutcomeReplied)
	return nil
}

func (r *Responder) publishError(correlationID string, detail models.ErrorDetail) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal error reply: %w", err)
	}
	reply := message.NewMessage(watermill.NewUUID(), payload)
	middleware.SetCorrelationID(correlationID, reply)
	reply.Metadata.Set(OriginTopicKey, r.cfg.RequestTopic)
	if err := r.publisher.Publish(r.cfg.ErrorTopic, reply); err != nil {
		metrics.RecordEvent(r.cfg.RequestTopic, OutcomeFailed)
		return fmt.Errorf("publish error reply: %w", err)
	}
	return nil
}
