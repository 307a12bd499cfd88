// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

/*
Package main is the entry point for the soundhub-friends server.

The server answers "who has taste like mine?" for Soundhub users: it reads
every user's favorite genres, encodes them as binary vectors and returns the
nearest users by cosine distance.

# Application Architecture

	RootSupervisor ("soundhub-friends")
	├── DataSupervisor ("data-layer")
	│   └── Snapshot warmer (when the snapshot cache and warm interval are set)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event responder (EVENTS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Request path:

	HTTP / event bus
	  → recommend.Service
	    → CachedSource (snapshot TTL cache, singleflight)
	      → BreakerSource (gobreaker)
	        → PostgreSQL (pgx) or DuckDB

# Configuration

Koanf v2, highest priority last:
  - built-in defaults
  - config.yaml (or CONFIG_PATH)
  - environment variables (POSTGRES_HOST, NEIGHBOURS_DEFAULT, HTTP_PORT, ...)

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree; the HTTP server drains for
server.shutdown_timeout before the store is closed.
*/
package main
