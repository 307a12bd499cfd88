// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/soundhub-friends/internal/logging"
)

// Validate checks that configuration values are present and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateBreaker(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	return requireNonNegative(map[string]time.Duration{
		"HTTP_READ_TIMEOUT":     c.Server.ReadTimeout,
		"HTTP_WRITE_TIMEOUT":    c.Server.WriteTimeout,
		"HTTP_IDLE_TIMEOUT":     c.Server.IdleTimeout,
		"HTTP_SHUTDOWN_TIMEOUT": c.Server.ShutdownTimeout,
	})
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DATABASE_DRIVER=duckdb")
		}
	case DriverPostgres:
		if err := c.validatePostgres(); err != nil {
			return err
		}
		if c.Database.SeedFile != "" {
			return fmt.Errorf("SEED_FILE is only supported with DATABASE_DRIVER=duckdb")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverDuckDB, DriverPostgres, c.Database.Driver)
	}
	if c.Database.QueryTimeout < 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be non-negative, got %v", c.Database.QueryTimeout)
	}
	return nil
}

func (c *Config) validatePostgres() error {
	p := c.Database.Postgres
	var missing []string
	if p.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if p.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if p.Name == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing environment variable(s): %s", strings.Join(missing, ", "))
	}
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("POSTGRES_PORT must be between 1 and 65535, got %d", p.Port)
	}
	if p.MaxConns < 0 {
		return fmt.Errorf("POSTGRES_MAX_CONNS must be non-negative, got %d", p.MaxConns)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.NeighboursDefault < 1 {
		return fmt.Errorf("NEIGHBOURS_DEFAULT must be at least 1, got %d", r.NeighboursDefault)
	}
	if r.MaxNeighbours < r.NeighboursDefault {
		return fmt.Errorf("MAX_NEIGHBOURS (%d) must be >= NEIGHBOURS_DEFAULT (%d)", r.MaxNeighbours, r.NeighboursDefault)
	}
	return requireNonNegative(map[string]time.Duration{
		"REQUEST_TIMEOUT":    r.RequestTimeout,
		"SNAPSHOT_CACHE_TTL": r.SnapshotCacheTTL,
		"WARM_INTERVAL":      r.WarmInterval,
	})
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive, got %v", c.Breaker.Timeout)
	}
	return requireNonNegative(map[string]time.Duration{"BREAKER_INTERVAL": c.Breaker.Interval})
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateEvents() error {
	e := c.Events
	if !e.Enabled {
		return nil
	}
	// gochannel is process-local, so the service needs a broker.
	if e.NATSURL == "" {
		return fmt.Errorf("NATS_URL is required when EVENTS_ENABLED=true")
	}
	if !strings.HasPrefix(e.NATSURL, "nats://") && !strings.HasPrefix(e.NATSURL, "tls://") {
		return fmt.Errorf("NATS_URL must start with nats:// or tls://, got %q", e.NATSURL)
	}
	for name, topic := range map[string]string{
		"REQUEST_TOPIC":     e.RequestTopic,
		"RESPONSE_TOPIC":    e.ResponseTopic,
		"ERROR_TOPIC":       e.ErrorTopic,
		"PREFERENCES_TOPIC": e.PreferencesTopic,
	} {
		if topic == "" {
			return fmt.Errorf("%s is required when EVENTS_ENABLED=true", name)
		}
	}
	if e.RetryCount < 0 {
		return fmt.Errorf("events retry_count must be non-negative, got %d", e.RetryCount)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func requireNonNegative(values map[string]time.Duration) error {
	for name, d := range values {
		if d < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", name, d)
		}
	}
	return nil
}
