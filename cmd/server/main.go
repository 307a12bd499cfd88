// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/soundhub-friends/docs"
	"github.com/tomtom215/soundhub-friends/internal/api"
	"github.com/tomtom215/soundhub-friends/internal/config"
	"github.com/tomtom215/soundhub-friends/internal/database"
	"github.com/tomtom215/soundhub-friends/internal/events"
	"github.com/tomtom215/soundhub-friends/internal/logging"
	"github.com/tomtom215/soundhub-friends/internal/metrics"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
	"github.com/tomtom215/soundhub-friends/internal/supervisor"
	"github.com/tomtom215/soundhub-friends/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("driver", cfg.Database.Driver).
		Int("neighbours_default", cfg.Recommend.NeighboursDefault).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting soundhub-friends")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Server stopped with error")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("Server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing preference store")
		}
	}()

	var source recommend.SnapshotSource = store
	if cfg.Breaker.Enabled {
		source = database.NewBreakerSource("preference-store", source, cfg.Breaker)
	}
	cached := database.NewCachedSource(source, cfg.Recommend.SnapshotCacheTTL)
	defer cached.Close()

	service := recommend.NewService(cached, recommendConfig(cfg.Recommend), logging.Logger(), metrics.RecommendRecorder{})

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	if cfg.Recommend.SnapshotCacheTTL > 0 && cfg.Recommend.WarmInterval > 0 {
		tree.AddDataService(services.NewSnapshotWarmerService(
			cached, metrics.RecommendRecorder{}, cfg.Recommend.WarmInterval, logging.Logger()))
	}

	if cfg.Events.Enabled {
		writer, _ := store.(events.PreferenceWriter)
		tree.AddMessagingService(services.NewResponderService(responderFactory(cfg.Events, service, cached, writer)))
		logging.Info().
			Str("transport", transportName(cfg.Events)).
			Str("request_topic", cfg.Events.RequestTopic).
			Bool("applies_preferences", writer != nil).
			Msg("Event responder enabled")
	}

	router := api.NewRouter(
		api.NewHandler(service, store),
		api.NewChiMiddleware(api.MiddlewareConfigFromSecurity(cfg.Security)),
	)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))

	err = tree.Serve(ctx)
	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	return err
}

func recommendConfig(c config.RecommendConfig) recommend.Config {
	return recommend.Config{
		NeighboursDefault: c.NeighboursDefault,
		MaxNeighbours:     c.MaxNeighbours,
		RequestTimeout:    c.RequestTimeout,
	}
}
