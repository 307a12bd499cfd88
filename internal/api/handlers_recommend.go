// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/soundhub-friends/internal/logging"
	"github.com/tomtom215/soundhub-friends/internal/models"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
	"github.com/tomtom215/soundhub-friends/internal/validation"
)

const maxBodyBytes = 1 << 20

// LegacyRecommend handles GET /recommend/{user_id}. It answers with a bare
// JSON array of user ids, and errors as {"code","detail"}.
//
// @Summary Recommend potential friends
// @Description Returns up to neighbours_default-1 users with the most similar favorite genres
// @Tags recommend
// @Produce json
// @Param user_id path string true "User UUID"
// @Success 200 {array} string
// @Failure 400 {object} models.ErrorDetail
// @Failure 404 {object} models.ErrorDetail
// @Failure 503 {object} models.ErrorDetail
// @Router /recommend/{user_id} [get]
func (h *Handler) LegacyRecommend(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "user_id")
	userID, err := uuid.Parse(raw)
	if err != nil {
		respondDetail(w, r, http.StatusBadRequest, fmt.Sprintf("invalid user id %q", raw), nil)
		return
	}

	logging.Ctx(r.Context()).Debug().Str("user_id", userID.String()).Msg("recommend_users")

	friends, err := h.service.FindPotentialFriends(r.Context(), userID)
	if err != nil {
		c := ClassifyError(err)
		respondDetail(w, r, c.Status, c.Message, err)
		return
	}
	if friends == nil {
		friends = recommend.NeighborResult{}
	}

	logging.Ctx(r.Context()).Info().Interface("potential_friends", friends).Msg("recommend_users")
	writeJSON(w, http.StatusOK, friends)
}

// Recommend handles GET /api/v1/recommend/{userID}?k=N.
//
// @Summary Recommend potential friends with a custom neighborhood size
// @Tags recommend
// @Produce json
// @Param userID path string true "User UUID"
// @Param k query int false "Neighborhood size including the user"
// @Success 200 {object} models.APIResponse{data=models.RecommendationData}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /api/v1/recommend/{userID} [get]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	userID, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	cfg := h.service.Config()
	k := cfg.NeighboursDefault
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondErrorDetails(w, r, http.StatusBadRequest, CodeValidation, "k must be an integer",
				map[string]any{"field": "k", "value": raw}, nil)
			return
		}
		k = parsed
	}
	if verr := validation.ValidateVar("k", k, fmt.Sprintf("min=1,max=%d", cfg.MaxNeighbours)); verr != nil {
		apiErr := verr.ToAPIError()
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	friends, err := h.service.FindPotentialFriendsK(r.Context(), userID, k)
	if err != nil {
		c := ClassifyError(err)
		respondError(w, r, c.Status, c.Code, c.Message, err)
		return
	}
	if friends == nil {
		friends = recommend.NeighborResult{}
	}

	respondSuccess(w, models.RecommendationData{UserID: userID, Neighbors: friends, K: k}, started)
}

// Compatibility handles POST /api/v1/recommend/{userID}/compatibility.
//
// @Summary Score candidates by shared favorite genres
// @Tags recommend
// @Accept json
// @Produce json
// @Param userID path string true "User UUID"
// @Param body body models.CompatibilityRequest true "Candidate user ids"
// @Success 200 {object} models.APIResponse{data=models.CompatibilityData}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /api/v1/recommend/{userID}/compatibility [post]
func (h *Handler) Compatibility(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	userID, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	var req models.CompatibilityRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "request body must be JSON with a candidates array", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	candidates := make([]uuid.UUID, len(req.Candidates))
	for i, c := range req.Candidates {
		candidates[i] = uuid.MustParse(c) // validated by uuid_not_nil
	}

	scores, err := h.service.Compatibility(r.Context(), userID, candidates)
	if err != nil {
		c := ClassifyError(err)
		respondError(w, r, c.Status, c.Code, c.Message, err)
		return
	}

	results := make([]models.CompatibilityEntry, len(scores))
	for i, s := range scores {
		results[i] = models.CompatibilityEntry{UserID: s.UserID, Compatibility: s.Percentage}
	}
	respondSuccess(w, models.CompatibilityData{
		UserID:     userID,
		Candidates: len(candidates),
		Results:    results,
	}, started)
}

func (h *Handler) parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "userID")
	userID, err := uuid.Parse(raw)
	if err != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, CodeValidation, "userID must be a valid UUID",
			map[string]any{"field": "userID", "value": sanitizeLogValue(raw)}, nil)
		return uuid.Nil, false
	}
	return userID, true
}
