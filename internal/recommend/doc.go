// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Package recommend finds potential friends by genre taste.
//
// # Core
//
// Two pure operations make up the search:
//
//   - Encode turns a PreferenceSnapshot into an EncodedMatrix with one binary
//     row per user and one column per distinct genre id (ascending), plus an
//     Index from user id to row.
//   - FindNeighbors ranks every row by cosine distance to the target row and
//     returns the k nearest user ids with the target itself removed.
//
// Rows are stored as roaring bitmaps of column positions, so the dot product
// of two binary rows is their intersection cardinality and the squared norm
// is the row cardinality.
//
// Neither operation keeps state between calls; concurrent queries need no
// locking as long as each works on its own snapshot.
//
// # Neighbor count
//
// A requested k larger than the number of rows is clamped to the row count,
// not to rows-1. The target is therefore always a candidate before it is
// filtered out, and the result holds at most k-1 ids. k <= 0 is rejected with
// ErrInvalidNeighborCount.
//
// # Service
//
// Service wires a SnapshotSource (the storage layer) to the core, applies the
// configured default neighbor count and request timeout, and reports
// observations to a Recorder. It also computes genre compatibility
// percentages for an explicit candidate list.
//
//	svc := recommend.NewService(store, recommend.DefaultConfig(), logger, nil)
//	friends, err := svc.FindPotentialFriends(ctx, userID)
//
// This package does not import other internal packages; metrics and storage
// plug in through the Recorder and SnapshotSource interfaces.
package recommend
