// Package config loads service configuration from USERD_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kestrelops/userd/pkg/store"
)

// Config holds all service configuration.
type Config struct {
	Server        ServerConfig
	Store         store.Config
	Auth          AuthConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	OpsPort         int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig holds token-service configuration.
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// ObservabilityConfig holds logging and metrics configuration.
type ObservabilityConfig struct {
	LogLevel       string
	MetricsEnabled bool
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	storeCfg := store.DefaultConfig()
	storeCfg.Type = getEnv("USERD_STORE", storeCfg.Type)
	storeCfg.PostgresURL = getEnv("USERD_POSTGRES_URL", storeCfg.PostgresURL)
	storeCfg.PostgresMaxConns = getEnvInt("USERD_POSTGRES_MAX_CONNS", storeCfg.PostgresMaxConns)
	storeCfg.PostgresMinConns = getEnvInt("USERD_POSTGRES_MIN_CONNS", storeCfg.PostgresMinConns)
	storeCfg.PostgresTimeout = getEnvDuration("USERD_POSTGRES_TIMEOUT", storeCfg.PostgresTimeout)
	storeCfg.RedisURL = getEnv("USERD_REDIS_URL", storeCfg.RedisURL)
	storeCfg.CacheEnabled = getEnvBool("USERD_CACHE_ENABLED", storeCfg.CacheEnabled)
	storeCfg.CacheTTL = getEnvDuration("USERD_CACHE_TTL", storeCfg.CacheTTL)

	return &Config{
		Server: ServerConfig{
			Host:            getEnv("USERD_HOST", "0.0.0.0"),
			Port:            getEnvInt("USERD_PORT", 8000),
			OpsPort:         getEnvInt("USERD_OPS_PORT", 9090),
			ReadTimeout:     getEnvDuration("USERD_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("USERD_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("USERD_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Store: storeCfg,
		Auth: AuthConfig{
			Secret:   getEnv("USERD_AUTH_SECRET", ""),
			TokenTTL: getEnvDuration("USERD_TOKEN_TTL", 30*time.Minute),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("USERD_LOG_LEVEL", "info"),
			MetricsEnabled: getEnvBool("USERD_METRICS_ENABLED", true),
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.OpsPort < 1 || c.Server.OpsPort > 65535 {
		return fmt.Errorf("invalid ops port: %d", c.Server.OpsPort)
	}
	if c.Server.Port == c.Server.OpsPort {
		return fmt.Errorf("server port and ops port must differ: %d", c.Server.Port)
	}

	switch c.Store.Type {
	case "memory":
	case "postgres":
		if c.Store.PostgresURL == "" {
			return fmt.Errorf("USERD_POSTGRES_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store type: %q", c.Store.Type)
	}

	if c.Store.CacheEnabled && c.Store.RedisURL == "" {
		return fmt.Errorf("USERD_REDIS_URL is required when the cache is enabled")
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("USERD_AUTH_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive: %s", c.Auth.TokenTTL)
	}

	return nil
}

// ListenAddr returns the API listen address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// OpsAddr returns the health/metrics listen address.
func (c *Config) OpsAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.OpsPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
