// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) (recommend.PreferenceSnapshot, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return recommend.PreferenceSnapshot{
		{UserID: uuid.New(), GenreIDs: []int{1, 2}},
		{UserID: uuid.New(), GenreIDs: []int{2, 5}},
	}, nil
}

type recordingObserver struct {
	mu     sync.Mutex
	users  int
	genres int
}

func (o *recordingObserver) ObserveSnapshot(users, genres int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.users, o.genres = users, genres
}

func TestSnapshotWarmerService_RefreshesOnStartAndTick(t *testing.T) {
	refresher := &fakeRefresher{}
	observer := &recordingObserver{}
	svc := NewSnapshotWarmerService(refresher, observer, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if got := refresher.calls.Load(); got < 3 {
		t.Errorf("Refresh calls = %d, want at least 3", got)
	}

	observer.mu.Lock()
	defer observer.mu.Unlock()
	if observer.users != 2 || observer.genres != 3 {
		t.Errorf("observed users=%d genres=%d, want 2 and 3", observer.users, observer.genres)
	}
}

func TestSnapshotWarmerService_FailuresDoNotStopService(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("connection refused")}
	svc := NewSnapshotWarmerService(refresher, nil, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if got := refresher.calls.Load(); got < 2 {
		t.Errorf("Refresh calls = %d, want retries after failure", got)
	}
}

func TestNewSnapshotWarmerService_DefaultInterval(t *testing.T) {
	svc := NewSnapshotWarmerService(&fakeRefresher{}, nil, 0, zerolog.Nop())
	if svc.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", svc.interval)
	}
	if svc.String() != "snapshot-warmer" {
		t.Errorf("String() = %q", svc.String())
	}
}
