// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package database

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/soundhub-friends/internal/cache"
	"github.com/tomtom215/soundhub-friends/internal/logging"
	"github.com/tomtom215/soundhub-friends/internal/metrics"
	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

const (
	snapshotKey = "favorite_genres"

	// snapshotLoadTimeout bounds a shared load, which outlives the caller
	// that started it.
	snapshotLoadTimeout = 30 * time.Second
)

// CachedSource memoizes the snapshot of another source for a TTL.
// Concurrent misses share a single load. A zero TTL disables caching and
// every call goes to the wrapped source.
type CachedSource struct {
	source recommend.SnapshotSource
	cache  *cache.Cache[recommend.PreferenceSnapshot]
	ttl    time.Duration
	group  singleflight.Group

	// generation is bumped by Invalidate so loads started earlier are not
	// stored.
	generation atomic.Uint64
}

var _ recommend.SnapshotSource = (*CachedSource)(nil)

// NewCachedSource wraps source with a snapshot cache of the given TTL.
func NewCachedSource(source recommend.SnapshotSource, ttl time.Duration) *CachedSource {
	cleanup := time.Duration(0)
	if ttl > 0 {
		cleanup = 2 * ttl
	}
	return &CachedSource{
		source: source,
		cache:  cache.New[recommend.PreferenceSnapshot](ttl, cleanup),
		ttl:    ttl,
	}
}

// FavoriteGenresByUser returns the cached snapshot, loading it on a miss.
func (c *CachedSource) FavoriteGenresByUser(ctx context.Context) (recommend.PreferenceSnapshot, error) {
	if c.ttl <= 0 {
		return c.source.FavoriteGenresByUser(ctx)
	}

	if snapshot, ok := c.cache.Get(snapshotKey); ok {
		metrics.RecordSnapshotCache(true)
		return snapshot, nil
	}
	metrics.RecordSnapshotCache(false)
	return c.load(ctx)
}

// Refresh loads a fresh snapshot and stores it regardless of the cached
// entry's age.
func (c *CachedSource) Refresh(ctx context.Context) (recommend.PreferenceSnapshot, error) {
	if c.ttl <= 0 {
		return c.source.FavoriteGenresByUser(ctx)
	}
	return c.load(ctx)
}

// load runs one source query per generation no matter how many callers miss
// at once. The query is detached from the caller that started it, so a
// canceled caller never fails the others; each caller stops waiting when its
// own ctx is done.
func (c *CachedSource) load(ctx context.Context) (recommend.PreferenceSnapshot, error) {
	gen := c.generation.Load()
	ch := c.group.DoChan(snapshotKey+":"+strconv.FormatUint(gen, 10), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotLoadTimeout)
		defer cancel()

		snapshot, err := c.source.FavoriteGenresByUser(loadCtx)
		if err != nil {
			return nil, err
		}
		if c.generation.Load() == gen {
			c.cache.Set(snapshotKey, snapshot)
		}
		return snapshot, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logging.Debug().Msg("Snapshot load shared with concurrent caller")
		}
		return res.Val.(recommend.PreferenceSnapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the cached snapshot. The next read reloads it.
func (c *CachedSource) Invalidate() {
	c.generation.Add(1)
	c.cache.Delete(snapshotKey)
	metrics.SnapshotCacheInvalidations.Inc()
}

// Stats returns the underlying cache counters.
func (c *CachedSource) Stats() cache.Stats {
	return c.cache.GetStats()
}

// Close stops the cache sweeper.
func (c *CachedSource) Close() {
	c.cache.Close()
}
