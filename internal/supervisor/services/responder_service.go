// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package services

import (
	"context"
	"errors"
	"fmt"
)

// Responder is the Run/Close lifecycle of events.Responder.
type Responder interface {
	Run(ctx context.Context) error
	Close() error
}

// ResponderService runs the event responder under supervision.
//
// A watermill router cannot be run twice, so a restart needs a fresh
// responder. newResponder is called on every Serve.
type ResponderService struct {
	newResponder func() (Responder, error)
}

// NewResponderService creates the service from a responder factory.
func NewResponderService(newResponder func() (Responder, error)) *ResponderService {
	return &ResponderService{newResponder: newResponder}
}

// Serve implements suture.Service.
func (s *ResponderService) Serve(ctx context.Context) error {
	responder, err := s.newResponder()
	if err != nil {
		return fmt.Errorf("create responder: %w", err)
	}

	err = responder.Run(ctx)
	closeErr := responder.Close()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("responder stopped unexpectedly")
	}
	return errors.Join(err, closeErr)
}

func (s *ResponderService) String() string {
	return "event-responder"
}
