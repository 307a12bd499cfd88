// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Package config loads service configuration with koanf.
//
// Loading order, later layers overriding earlier ones: built-in defaults,
// the optional YAML file (CONFIG_PATH or config.yaml), then environment
// variables. The legacy variable names of the first deployment
// (NEIGHBOURS_DEFAULT, POSTGRES_HOST, ...) are still honored.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Events    EventsConfig    `koanf:"events"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Database drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects and configures the preference store.
type DatabaseConfig struct {
	Driver       string         `koanf:"driver"`
	Path         string         `koanf:"path"` // DuckDB file; ":memory:" for an in-process database
	Postgres     PostgresConfig `koanf:"postgres"`
	QueryTimeout time.Duration  `koanf:"query_timeout"`
	SeedFile     string         `koanf:"seed_file"` // YAML snapshot loaded into DuckDB at startup
}

// PostgresConfig holds the connection settings of the main application database.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`
	MaxConns int    `koanf:"max_conns"`
}

// ConnString builds a postgres:// URL. The password is escaped.
func (p PostgresConfig) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:   "/" + p.Name,
	}
	q := url.Values{}
	if p.SSLMode != "" {
		q.Set("sslmode", p.SSLMode)
	}
	if p.MaxConns > 0 {
		q.Set("pool_max_conns", fmt.Sprintf("%d", p.MaxConns))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// RecommendConfig holds the neighbor search settings.
type RecommendConfig struct {
	NeighboursDefault int           `koanf:"neighbours_default"`
	MaxNeighbours     int           `koanf:"max_neighbours"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	SnapshotCacheTTL  time.Duration `koanf:"snapshot_cache_ttl"` // 0 disables the snapshot cache
	WarmInterval      time.Duration `koanf:"warm_interval"`      // 0 disables the cache warmer
}

// BreakerConfig configures the circuit breaker around the preference store.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// EventsConfig configures the recommendation request/response topics.
type EventsConfig struct {
	Enabled          bool          `koanf:"enabled"`
	NATSURL          string        `koanf:"nats_url"` // empty selects the in-process gochannel transport
	QueueGroup       string        `koanf:"queue_group"`
	RequestTopic     string        `koanf:"request_topic"`
	ResponseTopic    string        `koanf:"response_topic"`
	ErrorTopic       string        `koanf:"error_topic"`
	PreferencesTopic string        `koanf:"preferences_topic"`
	RetryCount       int           `koanf:"retry_count"`
	RetryInterval    time.Duration `koanf:"retry_interval"`
	CloseTimeout     time.Duration `koanf:"close_timeout"`
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
