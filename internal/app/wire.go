package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	s3blob "github.com/predictfund/predictfund/internal/blob/s3"
	"github.com/predictfund/predictfund/internal/cache/redis"
	"github.com/predictfund/predictfund/internal/config"
	"github.com/predictfund/predictfund/internal/domain"
	"github.com/predictfund/predictfund/internal/store/memory"
	"github.com/predictfund/predictfund/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency the application needs.
// It is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Stores
	MarketStore   domain.MarketStore
	CampaignStore domain.CampaignStore
	DonationStore domain.DonationStore

	// Redis-backed extras, nil when redis is disabled.
	MarketCache domain.MarketCache
	RateLimiter domain.RateLimiter
	EventBus    domain.EventBus

	// Blob storage, nil unless snapshots are enabled.
	BlobWriter domain.BlobWriter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Ledger store ---
	switch cfg.Storage.Driver {
	case "postgres":
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.MarketStore = postgres.NewMarketStore(pool)
		deps.CampaignStore = postgres.NewCampaignStore(pool)
		deps.DonationStore = postgres.NewDonationStore(pool)

	case "memory":
		markets := memory.NewMarketStore()
		campaigns := memory.NewCampaignStore()
		deps.MarketStore = markets
		deps.CampaignStore = campaigns
		deps.DonationStore = memory.NewDonationStore(campaigns)
		logger.InfoContext(ctx, "wire: using in-memory ledger store")

	default:
		cleanup()
		return nil, nil, fmt.Errorf("wire: unsupported storage driver %q", cfg.Storage.Driver)
	}

	// --- Redis (cache, rate limiter, event bus) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		cacheTTL := time.Duration(cfg.Redis.CacheTTLMinutes) * time.Minute
		deps.MarketCache = redis.NewMarketCache(redisClient, cacheTTL)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
		deps.EventBus = redis.NewEventBus(redisClient)
	}

	// --- S3 blob storage (only when snapshots are enabled) ---
	if cfg.Snapshot.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}

		deps.BlobWriter = s3blob.NewWriter(s3Client)
	}

	return deps, cleanup, nil
}
