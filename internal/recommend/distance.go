// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package recommend

import (
	"math"

	"github.com/RoaringBitmap/roaring"
)

// MaxDistance is the distance assigned when either row is all-zero. It sorts
// after every real cosine distance.
const MaxDistance = math.MaxFloat64

// CosineDistance returns 1 - dot(a,b)/(|a||b|) for two binary rows.
//
// For bit vectors dot(a,b) = |a AND b| and |a|^2 = popcount(a). Taking the
// square root of the product of cardinalities keeps identical rows at exactly 0.
func CosineDistance(a, b *roaring.Bitmap) float64 {
	na, nb := a.GetCardinality(), b.GetCardinality()
	if na == 0 || nb == 0 {
		return MaxDistance
	}
	dot := a.AndCardinality(b)
	return 1 - float64(dot)/math.Sqrt(float64(na)*float64(nb))
}

// Distance returns the cosine distance between rows i and j of m.
func (m *EncodedMatrix) Distance(i, j int) float64 {
	return CosineDistance(m.rows[i], m.rows[j])
}

// jaccardPercent returns |a AND b| / |a OR b| * 100, or 0 if either set is empty.
func jaccardPercent(a, b *roaring.Bitmap) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0
	}
	union := a.OrCardinality(b)
	return float64(a.AndCardinality(b)) / float64(union) * 100
}
