// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/soundhub-friends/internal/config"
	"github.com/tomtom215/soundhub-friends/internal/database"
	"github.com/tomtom215/soundhub-friends/internal/logging"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
	"github.com/tomtom215/soundhub-friends/internal/snapshotfile"
)

// preferenceStore is what the server needs from either backend.
type preferenceStore interface {
	recommend.SnapshotSource
	Ping(ctx context.Context) error
	Close() error
}

func openStore(ctx context.Context, cfg *config.DatabaseConfig) (preferenceStore, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		store, err := database.NewPostgres(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logging.Info().
			Str("host", cfg.Postgres.Host).
			Int("port", cfg.Postgres.Port).
			Str("database", cfg.Postgres.Name).
			Msg("Connected to PostgreSQL")
		return store, nil

	case config.DriverDuckDB:
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("open duckdb: %w", err)
		}
		if cfg.SeedFile != "" {
			if err := seed(ctx, db, cfg.SeedFile); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		logging.Info().Str("path", cfg.Path).Msg("DuckDB preference store opened")
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func seed(ctx context.Context, db *database.DB, path string) error {
	snapshot, err := snapshotfile.Load(path)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}
	if err := db.Seed(ctx, snapshot); err != nil {
		return fmt.Errorf("seed preferences: %w", err)
	}
	logging.Info().Str("file", path).Int("users", len(snapshot)).Msg("Seeded preference store")
	return nil
}
