// Package app provides the top-level application lifecycle. It wires together
// all dependencies (stores, cache, blob storage, services) and runs the HTTP
// server, the WebSocket hub, and the snapshot ticker until shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/predictfund/predictfund/internal/config"
	"github.com/predictfund/predictfund/internal/server"
	"github.com/predictfund/predictfund/internal/server/handler"
	"github.com/predictfund/predictfund/internal/server/ws"
	"github.com/predictfund/predictfund/internal/service"
)

// shutdownTimeout bounds how long in-flight requests may run during shutdown.
const shutdownTimeout = 10 * time.Second

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts the server
// goroutines, and blocks until the context is cancelled or a goroutine fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("storage_driver", a.cfg.Storage.Driver),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	if a.cfg.Storage.Seed {
		if err := seedMarkets(ctx, deps.MarketStore, a.logger); err != nil {
			// Seeding is a convenience; a failure should not keep the API down.
			a.logger.WarnContext(ctx, "seeding failed", slog.String("error", err.Error()))
		}
	}

	marketSvc := service.NewMarketService(
		deps.MarketStore,
		deps.MarketCache,
		deps.EventBus,
		a.logger.With(slog.String("component", "market_service")),
	)
	campaignSvc := service.NewCampaignService(
		deps.CampaignStore,
		deps.DonationStore,
		deps.EventBus,
		a.logger.With(slog.String("component", "campaign_service")),
	)

	handlerLogger := a.logger.With(slog.String("component", "handler"))
	handlers := server.Handlers{
		Health:    handler.NewHealthHandler(handlerLogger),
		Markets:   handler.NewMarketHandler(marketSvc, handlerLogger),
		Campaigns: handler.NewCampaignHandler(campaignSvc, handlerLogger),
	}

	var wsHub *ws.Hub
	if deps.EventBus != nil {
		wsHub = ws.NewHub(deps.EventBus, a.logger.With(slog.String("component", "ws")))
	}

	srv := server.NewServer(server.Config{
		Port:            a.cfg.Server.Port,
		CORSOrigins:     a.cfg.Server.CORSOrigins,
		RateLimit:       a.cfg.Server.RateLimitPerMinute,
		RateLimitWindow: time.Minute,
	}, handlers, wsHub, deps.RateLimiter, a.logger.With(slog.String("component", "server")))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if wsHub != nil {
		g.Go(func() error {
			if err := wsHub.Run(gctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		})
	}

	if a.cfg.Snapshot.Enabled && deps.BlobWriter != nil {
		snapshotSvc := service.NewSnapshotService(
			deps.MarketStore,
			deps.CampaignStore,
			deps.DonationStore,
			deps.BlobWriter,
			a.cfg.Snapshot.Prefix,
			a.logger.With(slog.String("component", "snapshot_service")),
		)
		interval := a.cfg.Snapshot.Interval.Duration
		g.Go(func() error {
			if err := snapshotSvc.RunEvery(gctx, interval); err != nil && err != context.Canceled {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		return fmt.Errorf("app: run: %w", err)
	}
	return nil
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
