package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Snapshot.Enabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"negative rate limit", func(c *Config) { c.Server.RateLimitPerMinute = -1 }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }},
		{"postgres without connection info", func(c *Config) {
			c.Postgres = PostgresConfig{}
		}},
		{"redis enabled without addr", func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.Addr = ""
		}},
		{"snapshots without bucket", func(c *Config) {
			c.Snapshot.Enabled = true
			c.S3.Bucket = ""
		}},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMemoryDriverNeedsNoPostgres(t *testing.T) {
	cfg := Defaults()
	cfg.Storage.Driver = "memory"
	cfg.Postgres = PostgresConfig{}
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PREDICTFUND_SERVER_PORT", "9090")
	t.Setenv("PREDICTFUND_STORAGE_DRIVER", "memory")
	t.Setenv("PREDICTFUND_STORAGE_SEED", "true")
	t.Setenv("PREDICTFUND_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PREDICTFUND_SNAPSHOT_INTERVAL", "90m")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/predictfund")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.True(t, cfg.Storage.Seed)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "1h30m0s", cfg.Snapshot.Interval.String())
	assert.Equal(t, "postgres://u:p@db:5432/predictfund", cfg.Postgres.DSN)
}
