package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PREDICTFUND_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, err
			}
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PREDICTFUND_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This lets
// operators inject secrets at deploy time without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "PREDICTFUND_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "PREDICTFUND_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.RateLimitPerMinute, "PREDICTFUND_SERVER_RATE_LIMIT_PER_MINUTE")

	// ── Storage ──
	setStr(&cfg.Storage.Driver, "PREDICTFUND_STORAGE_DRIVER")
	setBool(&cfg.Storage.Seed, "PREDICTFUND_STORAGE_SEED")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "PREDICTFUND_POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Postgres.Host, "PREDICTFUND_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "PREDICTFUND_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "PREDICTFUND_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "PREDICTFUND_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "PREDICTFUND_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "PREDICTFUND_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "PREDICTFUND_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "PREDICTFUND_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "PREDICTFUND_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "PREDICTFUND_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "PREDICTFUND_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PREDICTFUND_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PREDICTFUND_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PREDICTFUND_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "PREDICTFUND_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "PREDICTFUND_REDIS_TLS_ENABLED")
	setInt(&cfg.Redis.CacheTTLMinutes, "PREDICTFUND_REDIS_CACHE_TTL_MINUTES")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "PREDICTFUND_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "PREDICTFUND_S3_REGION")
	setStr(&cfg.S3.Bucket, "PREDICTFUND_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "PREDICTFUND_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "PREDICTFUND_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "PREDICTFUND_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "PREDICTFUND_S3_FORCE_PATH_STYLE")

	// ── Snapshot ──
	setBool(&cfg.Snapshot.Enabled, "PREDICTFUND_SNAPSHOT_ENABLED")
	setDuration(&cfg.Snapshot.Interval, "PREDICTFUND_SNAPSHOT_INTERVAL")
	setStr(&cfg.Snapshot.Prefix, "PREDICTFUND_SNAPSHOT_PREFIX")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "PREDICTFUND_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
