// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package recommend

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"
)

func mustEncode(t *testing.T, snap PreferenceSnapshot) (*EncodedMatrix, Index) {
	t.Helper()
	m, index, err := Encode(snap)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return m, index
}

func TestCosineDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []uint32
		want float64
	}{
		{"identical single", []uint32{0}, []uint32{0}, 0},
		{"identical pair", []uint32{0, 1}, []uint32{0, 1}, 0},
		{"identical triple", []uint32{0, 4, 9}, []uint32{0, 4, 9}, 0},
		{"disjoint", []uint32{0, 1}, []uint32{2}, 1},
		{"half overlap", []uint32{0}, []uint32{0, 1, 2, 3}, 0.5},
		{"zero left", nil, []uint32{1}, MaxDistance},
		{"zero right", []uint32{1}, nil, MaxDistance},
		{"both zero", nil, nil, MaxDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineDistance(roaring.BitmapOf(tt.a...), roaring.BitmapOf(tt.b...))
			if math.Abs(got-tt.want) > 1e-12 && got != tt.want {
				t.Errorf("CosineDistance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineDistance_IdenticalIsExactlyZero(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 64; n++ {
		bm := roaring.New()
		for i := 0; i < n; i++ {
			bm.Add(uint32(i * 3))
		}
		if d := CosineDistance(bm, bm.Clone()); d != 0 {
			t.Fatalf("CosineDistance(identical, n=%d) = %v, want 0", n, d)
		}
	}
}

func TestFindNeighbors_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		snapshot PreferenceSnapshot
		target   uuid.UUID
		k        int
		want     NeighborResult
	}{
		{
			name: "tie broken by row order then self removed",
			snapshot: PreferenceSnapshot{
				{UserID: userA, GenreIDs: []int{1, 2}},
				{UserID: userB, GenreIDs: []int{1, 2}},
				{UserID: userC, GenreIDs: []int{3}},
			},
			target: userA,
			k:      3,
			want:   NeighborResult{userB, userC},
		},
		{
			name:     "single user clamps to one and filters self",
			snapshot: PreferenceSnapshot{{UserID: userA, GenreIDs: []int{1}}},
			target:   userA,
			k:        5,
			want:     NeighborResult{},
		},
		{
			name: "k of two returns one neighbor",
			snapshot: PreferenceSnapshot{
				{UserID: userA, GenreIDs: []int{1, 2}},
				{UserID: userB, GenreIDs: []int{3}},
				{UserID: userC, GenreIDs: []int{1, 2}},
			},
			target: userA,
			k:      2,
			want:   NeighborResult{userC},
		},
		{
			name: "k of one yields only self",
			snapshot: PreferenceSnapshot{
				{UserID: userA, GenreIDs: []int{1}},
				{UserID: userB, GenreIDs: []int{1}},
			},
			target: userA,
			k:      1,
			want:   NeighborResult{},
		},
		{
			name: "target later in row order loses tie to earlier identical row",
			snapshot: PreferenceSnapshot{
				{UserID: userA, GenreIDs: []int{1}},
				{UserID: userB, GenreIDs: []int{1}},
				{UserID: userC, GenreIDs: []int{2}},
			},
			target: userB,
			k:      2,
			want:   NeighborResult{userA},
		},
		{
			name: "target pushed out of window is still capped at k-1",
			snapshot: PreferenceSnapshot{
				{UserID: userA, GenreIDs: []int{1}},
				{UserID: userB, GenreIDs: []int{1}},
				{UserID: userC, GenreIDs: []int{1}},
			},
			target: userC,
			k:      2,
			want:   NeighborResult{userA},
		},
		{
			name: "zero rows sort last",
			snapshot: PreferenceSnapshot{
				{UserID: userA},
				{UserID: userB, GenreIDs: []int{5}},
				{UserID: userC, GenreIDs: []int{6}},
				{UserID: userD, GenreIDs: []int{5, 6}},
			},
			target: userB,
			k:      4,
			want:   NeighborResult{userD, userC, userA},
		},
		{
			name: "zero target keeps row order",
			snapshot: PreferenceSnapshot{
				{UserID: userA, GenreIDs: []int{1}},
				{UserID: userB},
				{UserID: userC, GenreIDs: []int{2}},
			},
			target: userB,
			k:      3,
			want:   NeighborResult{userA, userC},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, index := mustEncode(t, tt.snapshot)
			got, err := FindNeighbors(m, index, tt.target, tt.k)
			if err != nil {
				t.Fatalf("FindNeighbors() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindNeighbors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindNeighbors_Errors(t *testing.T) {
	t.Parallel()

	m, index := mustEncode(t, PreferenceSnapshot{
		{UserID: userA, GenreIDs: []int{1}},
		{UserID: userB, GenreIDs: []int{2}},
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := FindNeighbors(m, index, userC, 3)
		var nf *UserNotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("error = %v, want *UserNotFoundError", err)
		}
		if nf.UserID != userC {
			t.Errorf("UserID = %s, want %s", nf.UserID, userC)
		}
	})

	for _, k := range []int{0, -1, -100} {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			if _, err := FindNeighbors(m, index, userA, k); !errors.Is(err, ErrInvalidNeighborCount) {
				t.Errorf("error = %v, want ErrInvalidNeighborCount", err)
			}
		})
	}
}

func TestEffectiveK(t *testing.T) {
	t.Parallel()

	tests := []struct{ k, rows, want int }{
		{3, 3, 3},
		{5, 1, 1},
		{10, 4, 4},
		{2, 10, 2},
	}
	for _, tt := range tests {
		if got := EffectiveK(tt.k, tt.rows); got != tt.want {
			t.Errorf("EffectiveK(%d, %d) = %d, want %d", tt.k, tt.rows, got, tt.want)
		}
	}
}

// Randomised check of the result-size and self-exclusion properties.
func TestFindNeighbors_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(12)
		snap := make(PreferenceSnapshot, n)
		for i := range snap {
			genres := make([]int, rng.Intn(5))
			for g := range genres {
				genres[g] = rng.Intn(8)
			}
			snap[i] = UserPreferences{UserID: uuid.New(), GenreIDs: genres}
		}
		m, index := mustEncode(t, snap)

		target := snap[rng.Intn(n)].UserID
		k := 1 + rng.Intn(15)

		got, err := FindNeighbors(m, index, target, k)
		if err != nil {
			t.Fatalf("FindNeighbors() error = %v", err)
		}
		if len(got) > k-1 || len(got) > n-1 {
			t.Fatalf("len(result) = %d with k=%d rows=%d", len(got), k, n)
		}
		if want := EffectiveK(k, n) - 1; len(got) != want {
			t.Fatalf("len(result) = %d, want %d (k=%d rows=%d)", len(got), want, k, n)
		}
		for _, id := range got {
			if id == target {
				t.Fatalf("result contains query user %s", target)
			}
		}
	}
}

func TestFindNeighbors_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	m, index := mustEncode(t, PreferenceSnapshot{
		{UserID: userA, GenreIDs: []int{1, 2}},
		{UserID: userB, GenreIDs: []int{2}},
	})
	before, _, _ := Encode(PreferenceSnapshot{
		{UserID: userA, GenreIDs: []int{1, 2}},
		{UserID: userB, GenreIDs: []int{2}},
	})
	indexCopy := Index{userA: 0, userB: 1}

	if _, err := FindNeighbors(m, index, userA, 2); err != nil {
		t.Fatalf("FindNeighbors() error = %v", err)
	}
	if !m.Equal(before) {
		t.Error("matrix mutated")
	}
	if !reflect.DeepEqual(index, indexCopy) {
		t.Errorf("index mutated: %v", index)
	}
}

func TestGenreCompatibility(t *testing.T) {
	t.Parallel()

	m, index := mustEncode(t, PreferenceSnapshot{
		{UserID: userA, GenreIDs: []int{1, 2}},
		{UserID: userB, GenreIDs: []int{2, 3}},
		{UserID: userC, GenreIDs: []int{4}},
		{UserID: userD, GenreIDs: []int{1, 2}},
	})
	stranger := uuid.New()

	got, err := GenreCompatibility(m, index, userA, []uuid.UUID{userB, userC, userD, userA, userB, stranger})
	if err != nil {
		t.Fatalf("GenreCompatibility() error = %v", err)
	}

	want := []Compatibility{
		{UserID: userB, Percentage: 100.0 / 3.0},
		{UserID: userD, Percentage: 100},
	}
	if len(got) != len(want) {
		t.Fatalf("GenreCompatibility() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].UserID != want[i].UserID || math.Abs(got[i].Percentage-want[i].Percentage) > 1e-9 {
			t.Errorf("result[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if _, err := GenreCompatibility(m, index, stranger, []uuid.UUID{userA}); !IsUserNotFound(err) {
		t.Errorf("unknown target error = %v, want UserNotFoundError", err)
	}
}
