// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package recommend

import (
	"fmt"
	"time"
)

// Config holds service-level recommendation settings.
type Config struct {
	// NeighboursDefault is the k used when a caller does not ask for one.
	NeighboursDefault int `json:"neighbours_default"`

	// MaxNeighbours caps caller-supplied k.
	MaxNeighbours int `json:"max_neighbours"`

	// RequestTimeout bounds snapshot retrieval for one query. Zero disables it.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		NeighboursDefault: 5,
		MaxNeighbours:     100,
		RequestTimeout:    10 * time.Second,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.NeighboursDefault < 1 {
		return fmt.Errorf("neighbours_default must be at least 1, got %d", c.NeighboursDefault)
	}
	if c.MaxNeighbours < c.NeighboursDefault {
		return fmt.Errorf("max_neighbours (%d) must be >= neighbours_default (%d)", c.MaxNeighbours, c.NeighboursDefault)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative, got %v", c.RequestTimeout)
	}
	return nil
}
