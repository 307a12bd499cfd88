// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/soundhub-friends/internal/database"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

// Error codes of the API envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeCanceled           = "REQUEST_CANCELED"
	CodeDatabase           = "DATABASE_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

// ClassifiedError is the HTTP rendering of a service error.
type ClassifiedError struct {
	Status  int
	Code    string
	Message string
}

// ClassifyError maps a recommendation error to a status, code and message.
// Storage failure details are not echoed to clients.
func ClassifyError(err error) ClassifiedError {
	switch {
	case recommend.IsUserNotFound(err):
		return ClassifiedError{http.StatusNotFound, CodeNotFound, notFoundMessage(err)}
	case errors.Is(err, recommend.ErrInvalidNeighborCount):
		return ClassifiedError{http.StatusBadRequest, CodeValidation, err.Error()}
	case errors.Is(err, recommend.ErrEmptyDataset):
		return ClassifiedError{http.StatusServiceUnavailable, CodeServiceUnavailable, recommend.ErrEmptyDataset.Error()}
	case database.IsBreakerOpen(err):
		return ClassifiedError{http.StatusServiceUnavailable, CodeServiceUnavailable, "preference store temporarily unavailable"}
	case errors.Is(err, context.DeadlineExceeded):
		return ClassifiedError{http.StatusServiceUnavailable, CodeServiceUnavailable, "request timed out"}
	case errors.Is(err, context.Canceled):
		return ClassifiedError{http.StatusServiceUnavailable, CodeCanceled, "request was canceled"}
	case database.IsStoreError(err):
		return ClassifiedError{http.StatusInternalServerError, CodeDatabase, "failed to load preference data"}
	default:
		return ClassifiedError{http.StatusInternalServerError, CodeInternal, "internal server error"}
	}
}

func notFoundMessage(err error) string {
	var nf *recommend.UserNotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return err.Error()
}
