// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Package testinfra starts real backing services for tests.
//
// StartNATSServer runs an in-process NATS server and needs nothing else:
//
//	url := testinfra.StartNATSServer(t)
//	ps, err := events.NewPubSub(config.EventsConfig{NATSURL: url, ...}, nil)
//
// The PostgreSQL container (build tag integration) uses testcontainers-go
// and is skipped when Docker is unavailable:
//
//	go test -tags integration ./internal/database/...
package testinfra
