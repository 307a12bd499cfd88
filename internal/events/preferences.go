// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/soundhub-friends/internal/metrics"
)

// PreferencesUpdate is the payload of a preferences-updated event. An empty
// payload only invalidates the snapshot cache.
//
//	{"user_id": "...", "genre_ids": [1, 7]}
//	{"user_id": "...", "deleted": true}
type PreferencesUpdate struct {
	UserID   uuid.UUID `json:"user_id"`
	GenreIDs []int     `json:"genre_ids"`
	Deleted  bool      `json:"deleted,omitempty"`
}

// PreferenceWriter applies preference updates to a local store.
// database.DB implements it.
type PreferenceWriter interface {
	SetFavoriteGenres(ctx context.Context, userID uuid.UUID, genres []int) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// NewPreferencesMessage builds a preferences-updated message for update.
func NewPreferencesMessage(update PreferencesUpdate) (*message.Message, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences update: %w", err)
	}
	return message.NewMessage(watermill.NewUUID(), payload), nil
}

// handlePreferencesUpdated applies the update when a writer is configured and
// always invalidates the cache. Malformed payloads and failed writes are
// logged and acknowledged.
func (r *Responder) handlePreferencesUpdated(msg *message.Message) error {
	defer r.invalidate(msg.UUID)

	if r.writer == nil || len(msg.Payload) == 0 {
		metrics.RecordEvent(r.cfg.PreferencesTopic, OutcomeInvalidated)
		return nil
	}

	var update PreferencesUpdate
	if err := json.Unmarshal(msg.Payload, &update); err != nil || update.UserID == uuid.Nil {
		r.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("malformed preferences update")
		metrics.RecordEvent(r.cfg.PreferencesTopic, OutcomeMalformed)
		return nil
	}

	if err := r.apply(msg.Context(), update); err != nil {
		r.logger.Error().Err(err).Str("user_id", update.UserID.String()).Msg("failed to apply preferences update")
		metrics.RecordEvent(r.cfg.PreferencesTopic, OutcomeFailed)
		return nil
	}

	r.logger.Debug().
		Str("user_id", update.UserID.String()).
		Bool("deleted", update.Deleted).
		Ints("genre_ids", update.GenreIDs).
		Msg("preferences update applied")
	metrics.RecordEvent(r.cfg.PreferencesTopic, OutcomeApplied)
	return nil
}

func (r *Responder) apply(ctx context.Context, update PreferencesUpdate) error {
	if update.Deleted {
		return r.writer.DeleteUser(ctx, update.UserID)
	}
	return r.writer.SetFavoriteGenres(ctx, update.UserID, update.GenreIDs)
}

func (r *Responder) invalidate(messageUUID string) {
	if r.cache != nil {
		r.cache.Invalidate()
	}
	r.logger.Debug().Str("message_uuid", messageUUID).Msg("snapshot cache invalidated")
}
