// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package recommend

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// neighbor holds a candidate row during ranking.
type neighbor struct {
	row      int
	distance float64
}

// EffectiveK returns the neighbor count actually searched for a matrix with
// rows rows: k clamped down to rows. It does not validate k.
func EffectiveK(k, rows int) int {
	if k > rows {
		return rows
	}
	return k
}

// FindNeighbors returns the users nearest to target by cosine distance.
//
// Every row, the target's included, is ranked by distance to the target row
// with ties broken by row order. The first EffectiveK(k) rows are taken and the
// target is then dropped. When ties push the target itself out of that window
// the result is cut to k-1 entries, so it never holds more than k-1 ids.
// An empty result is valid. Neither m nor index is modified.
func FindNeighbors(m *EncodedMatrix, index Index, target uuid.UUID, k int) (NeighborResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidNeighborCount, k)
	}

	targetRow, ok := index[target]
	if !ok || targetRow < 0 || targetRow >= m.Rows() {
		return nil, &UserNotFoundError{UserID: target}
	}

	k = EffectiveK(k, m.Rows())

	candidates := make([]neighbor, m.Rows())
	for r := range candidates {
		candidates[r] = neighbor{row: r, distance: m.Distance(targetRow, r)}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	result := make(NeighborResult, 0, k)
	for _, c := range candidates[:k] {
		id := m.users[c.row]
		if id == target {
			continue
		}
		result = append(result, id)
	}
	if len(result) > k-1 {
		result = result[:k-1]
	}
	return result, nil
}

// GenreCompatibility scores each candidate's genre overlap with target as a
// Jaccard percentage. Candidates with no overlap, candidates absent from the
// matrix, repeats and the target itself are left out. Output follows the
// order of candidates.
func GenreCompatibility(m *EncodedMatrix, index Index, target uuid.UUID, candidates []uuid.UUID) ([]Compatibility, error) {
	targetRow, ok := index[target]
	if !ok || targetRow < 0 || targetRow >= m.Rows() {
		return nil, &UserNotFoundError{UserID: target}
	}

	seen := make(map[uuid.UUID]struct{}, len(candidates))
	out := make([]Compatibility, 0, len(candidates))
	for _, id := range candidates {
		if id == target {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		row, ok := index[id]
		if !ok {
			continue
		}
		if pct := jaccardPercent(m.rows[targetRow], m.rows[row]); pct > 0 {
			out = append(out, Compatibility{UserID: id, Percentage: pct})
		}
	}
	return out, nil
}
