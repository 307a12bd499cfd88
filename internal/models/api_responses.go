// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Package models holds the JSON shapes of the HTTP API and the event payloads.
package models

import (
	"time"

	"github.com/google/uuid"
)

// APIResponse is the envelope returned by every /api/v1 endpoint.
//
//	{
//	  "status": "success",
//	  "data": {"user_id": "...", "neighbors": ["..."], "k": 5},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 4}
//	}
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata carries the response timestamp and the time spent answering.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the error body of the envelope.
//
// Codes: VALIDATION_ERROR, NOT_FOUND, SERVICE_UNAVAILABLE, DATABASE_ERROR,
// RATE_LIMIT_EXCEEDED, INTERNAL_ERROR.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorDetail is the error body of the legacy /recommend route and of
// messages on the recommendation error topic.
//
//	{"code": 404, "detail": "user with id ... not found"}
type ErrorDetail struct {
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

// RecommendationData is the data of GET /api/v1/recommend/{userID}.
type RecommendationData struct {
	UserID    uuid.UUID   `json:"user_id"`
	Neighbors []uuid.UUID `json:"neighbors"`
	K         int         `json:"k"`
}

// CompatibilityRequest is the body of POST /api/v1/recommend/{userID}/compatibility.
type CompatibilityRequest struct {
	Candidates []string `json:"candidates" validate:"required,min=1,max=500,dive,uuid_not_nil"`
}

// CompatibilityEntry is one compatible candidate.
type CompatibilityEntry struct {
	UserID        uuid.UUID `json:"user_id"`
	Compatibility float64   `json:"compatibility"`
}

// CompatibilityData is the data of the compatibility endpoint.
type CompatibilityData struct {
	UserID     uuid.UUID            `json:"user_id"`
	Candidates int                  `json:"candidates"`
	Results    []CompatibilityEntry `json:"results"`
}

// HealthStatus is the data of the health endpoints.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Uptime   string `json:"uptime,omitempty"`
}
