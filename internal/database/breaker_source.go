// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package database

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/soundhub-friends/internal/config"
	"github.com/tomtom215/soundhub-friends/internal/logging"
	"github.com/tomtom215/soundhub-friends/internal/metrics"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

// BreakerSource guards a snapshot source with a circuit breaker. While the
// circuit is open calls fail fast with gobreaker.ErrOpenState.
//
// Context cancellation by the caller is not counted as a store failure.
type BreakerSource struct {
	source recommend.SnapshotSource
	cb     *gobreaker.CircuitBreaker[recommend.PreferenceSnapshot]
}

var _ recommend.SnapshotSource = (*BreakerSource)(nil)

// NewBreakerSource wraps source. The breaker opens after
// cfg.FailureThreshold consecutive failures.
func NewBreakerSource(name string, source recommend.SnapshotSource, cfg config.BreakerConfig) *BreakerSource {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	threshold := cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[recommend.PreferenceSnapshot](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				logging.Warn().Str("breaker", name).Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerSource{source: source, cb: cb}
}

// FavoriteGenresByUser loads the snapshot through the breaker.
func (b *BreakerSource) FavoriteGenresByUser(ctx context.Context) (recommend.PreferenceSnapshot, error) {
	return b.cb.Execute(func() (recommend.PreferenceSnapshot, error) {
		return b.source.FavoriteGenresByUser(ctx)
	})
}

// State returns the current breaker state.
func (b *BreakerSource) State() gobreaker.State {
	return b.cb.State()
}

// IsBreakerOpen reports whether err is a fail-fast rejection by a breaker.
func IsBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
