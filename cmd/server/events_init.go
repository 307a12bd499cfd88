// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package main

import (
	"errors"

	"github.com/tomtom215/soundhub-friends/internal/config"
	"github.com/tomtom215/soundhub-friends/internal/events"
	"github.com/tomtom215/soundhub-friends/internal/logging"
	"github.com/tomtom215/soundhub-friends/internal/supervisor/services"
)

// ownedResponder closes its transport together with the router.
type ownedResponder struct {
	*events.Responder
	pubsub *events.PubSub
}

func (r ownedResponder) Close() error {
	return errors.Join(r.Responder.Close(), r.pubsub.Close())
}

// responderFactory builds a fresh transport and responder for every
// supervisor start. A nil writer leaves preference updates to the
// upstream store.
func responderFactory(cfg config.EventsConfig, service events.Recommender, cache events.Invalidator, writer events.PreferenceWriter) func() (services.Responder, error) {
	return func() (services.Responder, error) {
		logger := logging.WithComponent("events")

		ps, err := events.NewPubSub(cfg, logging.NewWatermillLoggerWithLogger(logger))
		if err != nil {
			return nil, err
		}
		responder, err := events.NewResponder(cfg, ps, service, cache, writer, logger)
		if err != nil {
			_ = ps.Close()
			return nil, err
		}
		return ownedResponder{Responder: responder, pubsub: ps}, nil
	}
}

func transportName(cfg config.EventsConfig) string {
	if cfg.NATSURL == "" {
		return "gochannel"
	}
	return "nats"
}
