// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package recommend

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"
)

// UserPreferences is one user's declared favorite genres.
type UserPreferences struct {
	// UserID identifies the user.
	UserID uuid.UUID `json:"user_id" yaml:"id"`

	// GenreIDs may be empty or contain duplicates; order is irrelevant.
	GenreIDs []int `json:"genre_ids" yaml:"genres"`
}

// PreferenceSnapshot is every (user, genre set) pair visible at query time.
// User ids are unique within a snapshot.
type PreferenceSnapshot []UserPreferences

// Index maps a user id to its row in an EncodedMatrix.
type Index map[uuid.UUID]int

// NeighborResult lists user ids nearest first, never including the query user.
type NeighborResult []uuid.UUID

// EncodedMatrix is a binary user x genre matrix.
//
// Row r corresponds to the r-th user of the snapshot it was encoded from.
// Column c corresponds to the c-th smallest genre id seen in that snapshot.
// Each row is stored as a bitmap of the column positions set to 1.
type EncodedMatrix struct {
	columns []int
	rows    []*roaring.Bitmap
	users   []uuid.UUID
}

// Rows returns the number of rows (users).
func (m *EncodedMatrix) Rows() int {
	return len(m.rows)
}

// Cols returns the number of columns (distinct genres).
func (m *EncodedMatrix) Cols() int {
	return len(m.columns)
}

// Columns returns a copy of the genre id assigned to each column.
func (m *EncodedMatrix) Columns() []int {
	out := make([]int, len(m.columns))
	copy(out, m.columns)
	return out
}

// UserID returns the user id of row r.
func (m *EncodedMatrix) UserID(r int) uuid.UUID {
	return m.users[r]
}

// Cell returns 1 if row r has column c set, 0 otherwise.
func (m *EncodedMatrix) Cell(r, c int) uint8 {
	if c < 0 || c >= len(m.columns) {
		return 0
	}
	if m.rows[r].Contains(uint32(c)) {
		return 1
	}
	return 0
}

// Row returns row r as a dense 0/1 slice of length Cols().
func (m *EncodedMatrix) Row(r int) []uint8 {
	dense := make([]uint8, len(m.columns))
	it := m.rows[r].Iterator()
	for it.HasNext() {
		dense[it.Next()] = 1
	}
	return dense
}

// RowCardinality returns the number of genres set in row r.
func (m *EncodedMatrix) RowCardinality(r int) int {
	return int(m.rows[r].GetCardinality())
}

// Equal reports whether two matrices have identical columns, rows and users.
func (m *EncodedMatrix) Equal(other *EncodedMatrix) bool {
	if other == nil || len(m.columns) != len(other.columns) || len(m.rows) != len(other.rows) {
		return false
	}
	for i := range m.columns {
		if m.columns[i] != other.columns[i] {
			return false
		}
	}
	for i := range m.rows {
		if m.users[i] != other.users[i] || !m.rows[i].Equals(other.rows[i]) {
			return false
		}
	}
	return true
}

// Compatibility is the genre overlap between the query user and one candidate,
// expressed as a percentage in (0, 100].
type Compatibility struct {
	UserID     uuid.UUID `json:"user_id"`
	Percentage float64   `json:"compatibility"`
}
