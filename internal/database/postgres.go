// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/soundhub-friends/internal/config"
	"github.com/tomtom215/soundhub-friends/internal/metrics"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

// PostgresStore reads preferences from the user_favorite_genres table of the
// main application database.
type PostgresStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

var _ recommend.SnapshotSource = (*PostgresStore)(nil)

// NewPostgres connects a pool and verifies it with a ping.
func NewPostgres(ctx context.Context, cfg *config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	s := &PostgresStore{pool: pool, queryTimeout: cfg.QueryTimeout}
	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

const postgresFavoriteGenresQuery = `
SELECT user_id::text, ARRAY_AGG(genre_id ORDER BY genre_id)
FROM user_favorite_genres
GROUP BY user_id
ORDER BY user_id`

// FavoriteGenresByUser returns one entry per user with at least one
// favorite genre, ordered by user id so distance ties break the same way on
// every load.
func (s *PostgresStore) FavoriteGenresByUser(ctx context.Context) (recommend.PreferenceSnapshot, error) {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	snapshot, err := s.favoriteGenres(ctx)
	metrics.RecordDBQuery("favorite_genres", time.Since(start), err)
	if err != nil {
		return nil, storeErr("favorite_genres", err)
	}
	return snapshot, nil
}

func (s *PostgresStore) favoriteGenres(ctx context.Context) (recommend.PreferenceSnapshot, error) {
	rows, err := s.pool.Query(ctx, postgresFavoriteGenresQuery)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (recommend.UserPreferences, error) {
		var (
			rawID  string
			genres []int32
		)
		if err := row.Scan(&rawID, &genres); err != nil {
			return recommend.UserPreferences{}, err
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return recommend.UserPreferences{}, fmt.Errorf("parse user_id %q: %w", rawID, err)
		}
		ids := make([]int, len(genres))
		for i, g := range genres {
			ids[i] = int(g)
		}
		return recommend.UserPreferences{UserID: id, GenreIDs: ids}, nil
	})
}

// Ping verifies the server is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return storeErr("ping", s.pool.Ping(ctx))
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
