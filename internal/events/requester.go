// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/soundhub-friends/internal/config"
	"github.com/tomtom215/soundhub-friends/internal/logging"
	"github.com/tomtom215/soundhub-friends/internal/models"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

type reply struct {
	friends recommend.NeighborResult
	err     error
}

// Requester publishes recommendation requests and matches replies by
// correlation id. It must subscribe without a queue group so every instance
// sees every reply.
type Requester struct {
	publisher message.Publisher
	cfg       config.EventsConfig

	mu      sync.Mutex
	pending map[string]chan reply

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRequester subscribes to the response and error topics.
func NewRequester(ctx context.Context, cfg config.EventsConfig, ps *PubSub) (*Requester, error) {
	ctx, cancel := context.WithCancel(ctx)

	responses, err := ps.Subscriber.Subscribe(ctx, cfg.ResponseTopic)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe to %s: %w", cfg.ResponseTopic, err)
	}
	failures, err := ps.Subscriber.Subscribe(ctx, cfg.ErrorTopic)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe to %s: %w", cfg.ErrorTopic, err)
	}

	r := &Requester{
		publisher: ps.Publisher,
		cfg:       cfg,
		pending:   make(map[string]chan reply),
		cancel:    cancel,
	}
	r.wg.Add(2)
	go r.consume(responses, r.decodeResponse)
	go r.consume(failures, r.decodeError)
	return r, nil
}

// Request asks for userID's potential friends and waits up to timeout for
// the reply. An error reply is returned as *ReplyError.
func (r *Requester) Request(ctx context.Context, userID uuid.UUID, timeout time.Duration) (recommend.NeighborResult, error) {
	payload, err := json.Marshal(userID)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	correlationID := logging.GenerateCorrelationID()
	ch := make(chan reply, 1)
	r.mu.Lock()
	r.pending[correlationID] = ch
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.pending, correlationID)
		r.mu.Unlock()
	}()

	msg := message.NewMessage(watermill.NewUUID(), payload)
	middleware.SetCorrelationID(correlationID, msg)
	if err := r.publisher.Publish(r.cfg.RequestTopic, msg); err != nil {
		return nil, fmt.Errorf("publish request: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case rep := <-ch:
		return rep.friends, rep.err
	case <-timer.C:
		return nil, ErrRequestTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the reply consumers.
func (r *Requester) Close() {
	r.cancel()
	r.wg.Wait()
}

func (r *Requester) consume(messages <-chan *message.Message, decode func(*message.Message) (reply, bool)) {
	defer r.wg.Done()
	for msg := range messages {
		rep, ok := decode(msg)
		msg.Ack()
		if !ok {
			continue
		}

		r.mu.Lock()
		ch, found := r.pending[middleware.MessageCorrelationID(msg)]
		r.mu.Unlock()
		if !found {
			continue
		}
		select {
		case ch <- rep:
		default:
		}
	}
}

func (r *Requester) decodeResponse(msg *message.Message) (reply, bool) {
	var friends recommend.NeighborResult
	if err := json.Unmarshal(msg.Payload, &friends); err != nil {
		return reply{err: fmt.Errorf("decode response: %w", err)}, true
	}
	return reply{friends: friends}, true
}

func (r *Requester) decodeError(msg *message.Message) (reply, bool) {
	if origin := msg.Metadata.Get(OriginTopicKey); origin != "" && origin != r.cfg.RequestTopic {
		return reply{}, false
	}
	var detail models.ErrorDetail
	if err := json.Unmarshal(msg.Payload, &detail); err != nil {
		return reply{err: fmt.Errorf("decode error reply: %w", err)}, true
	}
	return reply{err: &ReplyError{Code: detail.Code, Detail: detail.Detail}}, true
}
