// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package recommend

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrEmptyDataset is returned when there is no preference data to search.
	ErrEmptyDataset = errors.New("no preference data available")

	// ErrInvalidNeighborCount is returned for a neighbor count below 1.
	ErrInvalidNeighborCount = errors.New("neighbor count must be at least 1")

	// ErrDuplicateUser is returned when a snapshot lists the same user twice.
	ErrDuplicateUser = errors.New("duplicate user in preference snapshot")
)

// UserNotFoundError is returned when the query user is absent from the snapshot.
type UserNotFoundError struct {
	UserID uuid.UUID
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user with id %s not found", e.UserID)
}

// IsUserNotFound reports whether err wraps a *UserNotFoundError.
func IsUserNotFound(err error) bool {
	var nf *UserNotFoundError
	return errors.As(err, &nf)
}
