// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/soundhub-friends/internal/metrics"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

// Users appear in the order their first surviving row was inserted.
const favoriteGenresQuery = `
SELECT CAST(user_id AS VARCHAR) AS user_id,
       list(genre_id ORDER BY genre_id) AS genre_ids
FROM user_favorite_genres
GROUP BY user_id
ORDER BY min(rowid)`

// FavoriteGenresByUser returns one entry per user with at least one
// favorite genre.
func (db *DB) FavoriteGenresByUser(ctx context.Context) (recommend.PreferenceSnapshot, error) {
	ctx, cancel := db.withQueryTimeout(ctx)
	defer cancel()

	start := time.Now()
	snapshot, err := queryAndScan(ctx, db.conn, favoriteGenresQuery, nil, scanUserPreferences)
	metrics.RecordDBQuery("favorite_genres", time.Since(start), err)
	if err != nil {
		return nil, storeErr("favorite_genres", err)
	}
	return snapshot, nil
}

func scanUserPreferences(rows *sql.Rows) (recommend.UserPreferences, error) {
	var (
		rawID  string
		rawIDs any
	)
	if err := rows.Scan(&rawID, &rawIDs); err != nil {
		return recommend.UserPreferences{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return recommend.UserPreferences{}, fmt.Errorf("parse user_id %q: %w", rawID, err)
	}
	genres, err := intList(rawIDs)
	if err != nil {
		return recommend.UserPreferences{}, err
	}
	return recommend.UserPreferences{UserID: id, GenreIDs: genres}, nil
}

// intList converts a DuckDB LIST of integers to []int.
func intList(v any) ([]int, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("genre_ids: unexpected type %T", v)
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case int32:
			out = append(out, int(n))
		case int64:
			out = append(out, int(n))
		case int:
			out = append(out, n)
		default:
			return nil, fmt.Errorf("genre_ids: unexpected element type %T", item)
		}
	}
	return out, nil
}

// SetFavoriteGenres replaces the favorite genres of userID. An empty genres
// slice removes the user from future snapshots.
func (db *DB) SetFavoriteGenres(ctx context.Context, userID uuid.UUID, genres []int) error {
	ctx, cancel := db.withQueryTimeout(ctx)
	defer cancel()

	start := time.Now()
	err := db.setFavoriteGenres(ctx, userID, genres)
	metrics.RecordDBQuery("set_favorite_genres", time.Since(start), err)
	return storeErr("set_favorite_genres", err)
}

func (db *DB) setFavoriteGenres(ctx context.Context, userID uuid.UUID, genres []int) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := queryAndScan(ctx, tx,
		"SELECT genre_id FROM user_favorite_genres WHERE user_id = CAST(? AS UUID)",
		[]any{userID.String()},
		func(rows *sql.Rows) (int, error) {
			var g int
			err := rows.Scan(&g)
			return g, err
		})
	if err != nil {
		return fmt.Errorf("load current genres: %w", err)
	}

	// Only rows that actually change are touched so a deleted key is never
	// re-inserted inside the same transaction.
	want := make(map[int]struct{}, len(genres))
	for _, g := range genres {
		want[g] = struct{}{}
	}
	have := make(map[int]struct{}, len(current))
	for _, g := range current {
		have[g] = struct{}{}
		if _, keep := want[g]; keep {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM user_favorite_genres WHERE user_id = CAST(? AS UUID) AND genre_id = ?",
			userID.String(), g); err != nil {
			return fmt.Errorf("delete genre %d: %w", g, err)
		}
	}

	added := make([]int, 0, len(want))
	for g := range want {
		if _, ok := have[g]; !ok {
			added = append(added, g)
		}
	}
	sort.Ints(added)
	for _, g := range added {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO user_favorite_genres (user_id, genre_id) VALUES (CAST(? AS UUID), ?)",
			userID.String(), g); err != nil {
			return fmt.Errorf("insert genre %d: %w", g, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteUser removes every favorite genre of userID.
func (db *DB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := db.withQueryTimeout(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		"DELETE FROM user_favorite_genres WHERE user_id = CAST(? AS UUID)", userID.String())
	metrics.RecordDBQuery("delete_user", time.Since(start), err)
	return storeErr("delete_user", err)
}

// Seed inserts every (user, genre) pair of snapshot in snapshot order.
// Pairs already present are left untouched.
func (db *DB) Seed(ctx context.Context, snapshot recommend.PreferenceSnapshot) error {
	start := time.Now()
	err := db.seed(ctx, snapshot)
	metrics.RecordDBQuery("seed", time.Since(start), err)
	return storeErr("seed", err)
}

func (db *DB) seed(ctx context.Context, snapshot recommend.PreferenceSnapshot) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO user_favorite_genres (user_id, genre_id) VALUES (CAST(? AS UUID), ?) ON CONFLICT DO NOTHING")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for _, u := range snapshot {
		for _, g := range u.GenreIDs {
			if _, err := stmt.ExecContext(ctx, u.UserID.String(), g); err != nil {
				return fmt.Errorf("insert %s/%d: %w", u.UserID, g, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
