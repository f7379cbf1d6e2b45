// Package config provides environment-driven configuration for the back-office server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Audit failure policies.
const (
	AuditSync  = "sync"
	AuditAsync = "async"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL    Secret
	DBMaxConns     int
	Port           string
	ListenHost     string
	MetricsPort    string
	CORSOrigins    []string
	LogLevel       string
	JWTSecret      Secret
	StoreDriver    string
	AuditMode      string
	AuditQueueSize int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: Secret(envOrDefault("DATABASE_URL", "")),
		Port:        envOrDefault("PORT", "3030"),
		ListenHost:  envOrDefault("LISTEN_HOST", "127.0.0.1"),
		MetricsPort: envOrDefault("METRICS_PORT", "9091"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		JWTSecret:   Secret(envOrDefault("JWT_SECRET", "")),
		StoreDriver: strings.ToLower(envOrDefault("STORE_DRIVER", StorePostgres)),
		AuditMode:   strings.ToLower(envOrDefault("AUDIT_MODE", AuditSync)),
	}

	var err error

	if cfg.DBMaxConns, err = intInRange("DB_MAX_CONNS", 20, 2, 200); err != nil {
		return nil, err
	}

	if cfg.AuditQueueSize, err = intInRange("AUDIT_QUEUE_SIZE", 1000, 1, 100_000); err != nil {
		return nil, err
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

func intInRange(key string, fallback, lo, hi int) (int, error) {
	v, err := strconv.Atoi(envOrDefault(key, strconv.Itoa(fallback)))
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, lo, hi)
	}

	return v, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
