// Package config defines the top-level configuration for the predictfund
// backend and provides validation helpers.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by PREDICTFUND_* environment variables.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	LogLevel string         `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	// RateLimitPerMinute caps requests per client IP per minute. Zero
	// disables rate limiting; it is also skipped when Redis is disabled.
	RateLimitPerMinute int `toml:"rate_limit_per_minute"`
}

// StorageConfig selects the ledger storage driver.
type StorageConfig struct {
	// Driver is "postgres" or "memory". The memory driver keeps the ledger
	// in-process and is intended for local development and demos.
	Driver string `toml:"driver"`
	// Seed inserts the demo markets on startup when the market table is empty.
	Seed bool `toml:"seed"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters. Redis backs the market
// cache, the HTTP rate limiter, and the event bus feeding the WebSocket hub.
type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	PoolSize        int    `toml:"pool_size"`
	MaxRetries      int    `toml:"max_retries"`
	TLSEnabled      bool   `toml:"tls_enabled"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// S3Config holds S3-compatible object storage parameters for ledger snapshots.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// SnapshotConfig controls periodic ledger snapshots to object storage.
type SnapshotConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval duration `toml:"interval"`
	Prefix   string   `toml:"prefix"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "6h", "30m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:               8080,
			CORSOrigins:        []string{"*"},
			RateLimitPerMinute: 0,
		},
		Storage: StorageConfig{
			Driver: "postgres",
			Seed:   false,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "predictfund",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Enabled:         false,
			Addr:            "localhost:6379",
			PoolSize:        20,
			MaxRetries:      3,
			CacheTTLMinutes: 5,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "predictfund-data",
			ForcePathStyle: true,
		},
		Snapshot: SnapshotConfig{
			Enabled:  false,
			Interval: duration{6 * time.Hour},
			Prefix:   "snapshots",
		},
		LogLevel: "info",
	}
}

// Validate checks the configuration for inconsistencies that would only
// surface later at runtime.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("config: server.rate_limit_per_minute must not be negative")
	}

	switch c.Storage.Driver {
	case "postgres":
		if c.Postgres.DSN == "" && (c.Postgres.Host == "" || c.Postgres.Database == "" || c.Postgres.User == "") {
			return fmt.Errorf("config: postgres requires dsn or host/database/user")
		}
	case "memory":
	default:
		return fmt.Errorf("config: unsupported storage.driver %q", c.Storage.Driver)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}

	if c.Snapshot.Enabled {
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return fmt.Errorf("config: snapshots require s3.bucket and s3.region")
		}
		if c.Snapshot.Interval.Duration <= 0 {
			return fmt.Errorf("config: snapshot.interval must be positive")
		}
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}

	return nil
}
