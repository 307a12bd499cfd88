// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

//go:build integration

package database

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/soundhub-friends/internal/config"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
	"github.com/tomtom215/soundhub-friends/internal/testinfra"
)

const postgresFixture = `
CREATE TABLE user_favorite_genres (
	user_id  UUID    NOT NULL,
	genre_id INTEGER NOT NULL,
	PRIMARY KEY (user_id, genre_id)
);
INSERT INTO user_favorite_genres (user_id, genre_id) VALUES
	('33333333-3333-3333-3333-333333333333', 1),
	('22222222-2222-2222-2222-222222222222', 7),
	('11111111-1111-1111-1111-111111111111', 2),
	('11111111-1111-1111-1111-111111111111', 1);
`

func TestPostgresStore_FavoriteGenresByUser(t *testing.T) {
	pg := testinfra.StartPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	admin, err := pgxpool.New(ctx, pg.ConnString())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := admin.Exec(ctx, postgresFixture); err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	admin.Close()

	store, err := NewPostgres(ctx, &config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		Postgres:     pg,
		QueryTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewPostgres() error = %v", err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	got, err := store.FavoriteGenresByUser(ctx)
	if err != nil {
		t.Fatalf("FavoriteGenresByUser() error = %v", err)
	}

	// Rows follow user id, not insertion order.
	want := recommend.PreferenceSnapshot{
		{UserID: alice, GenreIDs: []int{1, 2}},
		{UserID: bob, GenreIDs: []int{7}},
		{UserID: carol, GenreIDs: []int{1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("snapshot = %+v, want %+v", got, want)
	}

	again, err := store.FavoriteGenresByUser(ctx)
	if err != nil {
		t.Fatalf("FavoriteGenresByUser() second load error = %v", err)
	}
	if !reflect.DeepEqual(again, got) {
		t.Errorf("second load = %+v, want %+v", again, got)
	}

	m, _, err := recommend.Encode(got)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if m.Rows() != 3 || m.Cols() != 3 {
		t.Errorf("matrix = %dx%d, want 3x3", m.Rows(), m.Cols())
	}
}

func TestNewPostgres_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewPostgres(ctx, &config.DatabaseConfig{
		Driver: config.DriverPostgres,
		Postgres: config.PostgresConfig{
			Host: "127.0.0.1", Port: 1, User: "x", Name: "x", SSLMode: "disable",
		},
	})
	if err == nil {
		t.Fatal("expected connection error")
	}
}
