// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

// SnapshotRefresher reloads and caches the preference snapshot.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (recommend.PreferenceSnapshot, error)
}

// SnapshotObserver receives the size of each refreshed snapshot.
type SnapshotObserver interface {
	ObserveSnapshot(users, genres int)
}

// SnapshotWarmerService refreshes the cached snapshot on startup and then
// every interval, so requests rarely pay for a snapshot load.
type SnapshotWarmerService struct {
	refresher SnapshotRefresher
	observer  SnapshotObserver
	interval  time.Duration
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewSnapshotWarmerService creates the warmer. observer may be nil.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewSnapshotWarmerService(refresher SnapshotRefresher, observer SnapshotObserver, interval time.Duration, logger zerolog.Logger) *SnapshotWarmerService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SnapshotWarmerService{
		refresher: refresher,
		observer:  observer,
		interval:  interval,
		timeout:   interval,
		logger:    logger.With().Str("service", "snapshot-warmer").Logger(),
	}
}

// Serve implements suture.Service. Refresh failures are logged and retried
// on the next tick; they never stop the service.
func (s *SnapshotWarmerService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("snapshot warmer starting")
	s.warm(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.warm(ctx)
		}
	}
}

func (s *SnapshotWarmerService) warm(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	start := time.Now()
	snapshot, err := s.refresher.Refresh(ctx)
	if err != nil {
		// Shutdown interrupts are not failures.
		if parent.Err() == nil {
			s.logger.Warn().Err(err).Msg("snapshot refresh failed")
		}
		return
	}

	genres := distinctGenres(snapshot)
	if s.observer != nil {
		s.observer.ObserveSnapshot(len(snapshot), genres)
	}
	s.logger.Debug().
		Int("users", len(snapshot)).
		Int("genres", genres).
		Dur("duration", time.Since(start)).
		Msg("snapshot refreshed")
}

func distinctGenres(snapshot recommend.PreferenceSnapshot) int {
	seen := make(map[int]struct{})
	for _, u := range snapshot {
		for _, g := range u.GenreIDs {
			seen[g] = struct{}{}
		}
	}
	return len(seen)
}

func (s *SnapshotWarmerService) String() string {
	return "snapshot-warmer"
}
