// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package events

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/tomtom215/soundhub-friends/internal/config"
	"github.com/tomtom215/soundhub-friends/internal/database"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

type recordingWriter struct {
	mu      sync.Mutex
	set     map[uuid.UUID][]int
	deleted []uuid.UUID
	err     error
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{set: make(map[uuid.UUID][]int)}
}

func (w *recordingWriter) SetFavoriteGenres(_ context.Context, userID uuid.UUID, genres []int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.set[userID] = genres
	return nil
}

func (w *recordingWriter) DeleteUser(_ context.Context, userID uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.deleted = append(w.deleted, userID)
	return nil
}

func (w *recordingWriter) writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.set) + len(w.deleted)
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func publishUpdate(t *testing.T, h *harness, update PreferencesUpdate) {
	t.Helper()
	msg, err := NewPreferencesMessage(update)
	if err != nil {
		t.Fatalf("NewPreferencesMessage() error = %v", err)
	}
	if err := h.ps.Publisher.Publish(h.cfg.PreferencesTopic, msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}

func TestResponder_PreferencesUpdateApplied(t *testing.T) {
	writer := newRecordingWriter()
	inv := &countingInvalidator{}
	h := runResponder(t, staticSource{snapshot: scenario()}, inv, writer)

	publishUpdate(t, h, PreferencesUpdate{UserID: userC, GenreIDs: []int{1, 4}})
	publishUpdate(t, h, PreferencesUpdate{UserID: userB, Deleted: true})

	waitUntil(t, "both updates", func() bool { return writer.writes() == 2 })
	waitUntil(t, "cache invalidation", func() bool { return inv.calls.Load() == 2 })

	writer.mu.Lock()
	defer writer.mu.Unlock()
	if got := writer.set[userC]; !reflect.DeepEqual(got, []int{1, 4}) {
		t.Errorf("genres of C = %v, want [1 4]", got)
	}
	if len(writer.deleted) != 1 || writer.deleted[0] != userB {
		t.Errorf("deleted = %v, want [%s]", writer.deleted, userB)
	}
}

func TestResponder_PreferencesUpdateRejected(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		err     error
	}{
		{"not json", []byte("genres please"), nil},
		{"missing user", []byte(`{"genre_ids":[1]}`), nil},
		{"write fails", []byte(`{"user_id":"00000000-0000-0000-0000-00000000000c","genre_ids":[1]}`), errors.New("disk full")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := newRecordingWriter()
			writer.err = tt.err
			inv := &countingInvalidator{}
			h := runResponder(t, staticSource{snapshot: scenario()}, inv, writer)

			msg := message.NewMessage(watermill.NewUUID(), tt.payload)
			if err := h.ps.Publisher.Publish(h.cfg.PreferencesTopic, msg); err != nil {
				t.Fatal(err)
			}

			// The message is still acknowledged and the cache dropped.
			waitUntil(t, "cache invalidation", func() bool { return inv.calls.Load() == 1 })
			if n := writer.writes(); n != 0 {
				t.Errorf("writes = %d, want 0", n)
			}
		})
	}
}

func TestResponder_PreferencesUpdateWithoutWriterOnlyInvalidates(t *testing.T) {
	inv := &countingInvalidator{}
	h := runResponder(t, staticSource{snapshot: scenario()}, inv, nil)

	publishUpdate(t, h, PreferencesUpdate{UserID: userC, GenreIDs: []int{9}})
	waitUntil(t, "cache invalidation", func() bool { return inv.calls.Load() == 1 })
}

func TestResponder_PreferencesUpdateReachesDuckDB(t *testing.T) {
	db, err := database.New(&config.DatabaseConfig{
		Driver:       config.DriverDuckDB,
		Path:         ":memory:",
		QueryTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Seed(context.Background(), scenario()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	cached := database.NewCachedSource(db, time.Minute)
	t.Cleanup(cached.Close)
	h := runResponder(t, cached, cached, db)

	got, err := h.requester.Request(context.Background(), userA, 5*time.Second)
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if want := (recommend.NeighborResult{userB, userC}); !reflect.DeepEqual(got, want) {
		t.Fatalf("neighbors before update = %v, want %v", got, want)
	}

	publishUpdate(t, h, PreferencesUpdate{UserID: userB, Deleted: true})

	want := recommend.NeighborResult{userC}
	waitUntil(t, "deleted user to disappear", func() bool {
		got, err := h.requester.Request(context.Background(), userA, 5*time.Second)
		return err == nil && reflect.DeepEqual(got, want)
	})
}
