// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Package api serves the friend recommendation HTTP API on a chi router.
package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

// Recommender answers friend queries. *recommend.Service implements it.
type Recommender interface {
	FindPotentialFriends(ctx context.Context, userID uuid.UUID) (recommend.NeighborResult, error)
	FindPotentialFriendsK(ctx context.Context, userID uuid.UUID, k int) (recommend.NeighborResult, error)
	Compatibility(ctx context.Context, userID uuid.UUID, candidates []uuid.UUID) ([]recommend.Compatibility, error)
	Config() recommend.Config
}

// Pinger reports whether the preference store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	service   Recommender
	store     Pinger
	startTime time.Time
}

// NewHandler creates a Handler. store may be nil, in which case readiness
// only reflects that the process is up.
func NewHandler(service Recommender, store Pinger) *Handler {
	return &Handler{
		service:   service,
		store:     store,
		startTime: time.Now(),
	}
}
