// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package events

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/soundhub-friends/internal/database"
	"github.com/tomtom215/soundhub-friends/internal/models"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

// ErrRequestTimeout is returned by Requester when no reply arrives in time.
var ErrRequestTimeout = errors.New("recommendation request timed out")

// ReplyError is an error reply received from the error topic.
type ReplyError struct {
	Code   int
	Detail string
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("recommendation failed (%d): %s", e.Code, e.Detail)
}

// errorReply renders a service error as an error-topic payload.
func errorReply(err error) models.ErrorDetail {
	if database.IsBreakerOpen(err) {
		return models.ErrorDetail{Code: http.StatusServiceUnavailable, Detail: "preference store temporarily unavailable"}
	}

	switch recommend.ErrorReason(err) {
	case recommend.ReasonNotFound:
		var nf *recommend.UserNotFoundError
		errors.As(err, &nf)
		return models.ErrorDetail{Code: http.StatusNotFound, Detail: nf.Error()}
	case recommend.ReasonEmptyDataset:
		return models.ErrorDetail{Code: http.StatusServiceUnavailable, Detail: recommend.ErrEmptyDataset.Error()}
	case recommend.ReasonInvalidK:
		return models.ErrorDetail{Code: http.StatusBadRequest, Detail: recommend.ErrInvalidNeighborCount.Error()}
	case recommend.ReasonTimeout:
		return models.ErrorDetail{Code: http.StatusServiceUnavailable, Detail: "request timed out"}
	case recommend.ReasonCanceled:
		return models.ErrorDetail{Code: http.StatusServiceUnavailable, Detail: "request was canceled"}
	default:
		return models.ErrorDetail{Code: http.StatusInternalServerError, Detail: "failed to load preference data"}
	}
}
