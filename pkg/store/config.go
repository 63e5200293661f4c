package store

import "time"

// Config selects and tunes the record store backend.
type Config struct {
	Type string // "memory" or "postgres"

	// PostgreSQL config
	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int
	PostgresTimeout  time.Duration

	// Redis read-cache config (postgres backend only)
	RedisURL     string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Type:             "memory",
		PostgresMaxConns: 20,
		PostgresMinConns: 2,
		PostgresTimeout:  10 * time.Second,
		CacheEnabled:     false,
		CacheTTL:         5 * time.Minute,
	}
}
