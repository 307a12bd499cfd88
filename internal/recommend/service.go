// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SnapshotSource supplies the preference snapshot a query runs against.
// It is implemented by the storage layer.
type SnapshotSource interface {
	FavoriteGenresByUser(ctx context.Context) (PreferenceSnapshot, error)
}

// Recorder receives per-query observations. internal/metrics provides the
// Prometheus implementation.
type Recorder interface {
	ObserveSnapshot(users, genres int)
	ObserveRecommendation(elapsed time.Duration, results int, err error)
}

type noopRecorder struct{}

func (noopRecorder) ObserveSnapshot(int, int)                        {}
func (noopRecorder) ObserveRecommendation(time.Duration, int, error) {}

// Service answers friend queries against snapshots from a SnapshotSource.
// It holds no per-query state and is safe for concurrent use.
type Service struct {
	source   SnapshotSource
	config   Config
	logger   zerolog.Logger
	recorder Recorder
}

// NewService creates a Service. A nil recorder disables observations.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(source SnapshotSource, cfg Config, logger zerolog.Logger, recorder Recorder) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		source:   source,
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		recorder: recorder,
	}
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.config
}

// FindPotentialFriends returns the nearest users to userID using the
// configured default neighbor count.
func (s *Service) FindPotentialFriends(ctx context.Context, userID uuid.UUID) (NeighborResult, error) {
	return s.FindPotentialFriendsK(ctx, userID, s.config.NeighboursDefault)
}

// FindPotentialFriendsK returns the nearest users to userID searching k rows.
// The configured default is never modified by a query.
func (s *Service) FindPotentialFriendsK(ctx context.Context, userID uuid.UUID, k int) (NeighborResult, error) {
	start := time.Now()

	result, err := s.findNeighbors(ctx, userID, k)
	s.recorder.ObserveRecommendation(time.Since(start), len(result), err)
	if err != nil {
		event := s.logger.Error()
		if errors.Is(err, context.Canceled) {
			event = s.logger.Debug()
		}
		event.Err(err).Str("user_id", userID.String()).Int("k", k).Msg("potential_friends failed")
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Int("k", k).
		Int("found", len(result)).
		Interface("potential_friends", result).
		Msg("potential_friends")
	return result, nil
}

func (s *Service) findNeighbors(ctx context.Context, userID uuid.UUID, k int) (NeighborResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidNeighborCount, k)
	}

	m, index, err := s.encodeSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return FindNeighbors(m, index, userID, k)
}

// Compatibility returns genre compatibility percentages between userID and
// each candidate present in the snapshot.
func (s *Service) Compatibility(ctx context.Context, userID uuid.UUID, candidates []uuid.UUID) ([]Compatibility, error) {
	m, index, err := s.encodeSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	out, err := GenreCompatibility(m, index, userID, candidates)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", userID.String()).
		Int("candidates", len(candidates)).
		Int("compatible", len(out)).
		Msg("compatibility computed")
	return out, nil
}

func (s *Service) encodeSnapshot(ctx context.Context) (*EncodedMatrix, Index, error) {
	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	snapshot, err := s.source.FavoriteGenresByUser(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load preference snapshot: %w", err)
	}

	m, index, err := Encode(snapshot)
	if err != nil {
		return nil, nil, err
	}
	s.recorder.ObserveSnapshot(m.Rows(), m.Cols())
	return m, index, nil
}

// Error reasons reported by ErrorReason.
const (
	ReasonNotFound     = "not_found"
	ReasonEmptyDataset = "empty_dataset"
	ReasonInvalidK     = "invalid_k"
	ReasonTimeout      = "timeout"
	ReasonCanceled     = "canceled"
	ReasonStorage      = "storage"
)

// ErrorReason classifies err into a short label for metrics and logs.
// It returns "" for a nil error.
func ErrorReason(err error) string {
	switch {
	case err == nil:
		return ""
	case IsUserNotFound(err):
		return ReasonNotFound
	case errors.Is(err, ErrEmptyDataset):
		return ReasonEmptyDataset
	case errors.Is(err, ErrInvalidNeighborCount):
		return ReasonInvalidK
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	default:
		return ReasonStorage
	}
}
