// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/soundhub-friends/internal/logging"
	"github.com/tomtom215/soundhub-friends/internal/models"
)

const readinessTimeout = 3 * time.Second

// Root handles GET /, the legacy healthcheck page.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("<h1>Everything is good!</h1>")); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write healthcheck page")
	}
}

// HealthLive reports that the process is up.
//
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Router /api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status: "alive",
			Uptime: time.Since(h.startTime).Round(time.Second).String(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady returns 200 when the preference store answers a ping and 503
// otherwise.
//
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Failure 503 {object} models.APIResponse
// @Router /api/v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondJSON(w, http.StatusOK, &models.APIResponse{
			Status:   "success",
			Data:     models.HealthStatus{Status: "ready"},
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable, "preference store unreachable", err)
		return
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     models.HealthStatus{Status: "ready", Database: "connected"},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
