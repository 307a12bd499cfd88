// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Package events answers recommendation requests arriving over a message
// bus and invalidates the snapshot cache when preferences change.
//
// # Topics
//
//	request_topic      payload: JSON user UUID string
//	response_topic     payload: JSON array of UUIDs
//	error_topic        payload: {"code":N,"detail":"..."}
//	preferences_topic  any payload; drops the cached snapshot
//
// Replies carry the request's correlation_id metadata. Error replies also
// carry origin_topic so several request topics can share one error topic.
//
// # Transports
//
// With an empty NATS URL the in-process watermill gochannel is used, which
// is what the tests run against. Otherwise core NATS (JetStream disabled) is
// used with a queue group so replicas share the request load.
package events
