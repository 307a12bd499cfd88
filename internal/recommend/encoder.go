// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package recommend

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"
)

// Encode builds the binary user x genre matrix for a snapshot.
//
// Columns are the distinct genre ids of the whole snapshot in ascending order,
// so the same snapshot always encodes to the same matrix regardless of the
// order genre ids appear in. A user without genres gets an all-zero row.
// The snapshot is not modified or retained.
func Encode(snapshot PreferenceSnapshot) (*EncodedMatrix, Index, error) {
	if len(snapshot) == 0 {
		return nil, nil, ErrEmptyDataset
	}

	index := make(Index, len(snapshot))
	seen := make(map[int]struct{})
	for row, prefs := range snapshot {
		if _, dup := index[prefs.UserID]; dup {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateUser, prefs.UserID)
		}
		index[prefs.UserID] = row
		for _, g := range prefs.GenreIDs {
			seen[g] = struct{}{}
		}
	}

	columns := make([]int, 0, len(seen))
	for g := range seen {
		columns = append(columns, g)
	}
	sort.Ints(columns)

	position := make(map[int]uint32, len(columns))
	for c, g := range columns {
		position[g] = uint32(c)
	}

	m := &EncodedMatrix{
		columns: columns,
		rows:    make([]*roaring.Bitmap, len(snapshot)),
		users:   make([]uuid.UUID, len(snapshot)),
	}
	for row, prefs := range snapshot {
		bm := roaring.New()
		for _, g := range prefs.GenreIDs {
			bm.Add(position[g])
		}
		m.rows[row] = bm
		m.users[row] = prefs.UserID
	}

	return m, index, nil
}
