// Package service implements the market accounting and campaign funding
// engines on top of the domain store interfaces.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/predictfund/predictfund/internal/domain"
)

// minInitialLiquidity mirrors the client-side schema minimum; it is
// re-checked here so the server never trusts the SPA's validation.
var minInitialLiquidity = decimal.RequireFromString("0.2")

var two = decimal.NewFromInt(2)

// MarketService is the market accounting engine: it seeds liquidity pools on
// creation and serves market reads, optionally through a cache.
type MarketService struct {
	markets domain.MarketStore
	cache   domain.MarketCache // nil disables caching
	bus     domain.EventBus    // nil disables event publishing
	logger  *slog.Logger
}

// NewMarketService creates a MarketService. cache and bus may be nil.
func NewMarketService(
	markets domain.MarketStore,
	cache domain.MarketCache,
	bus domain.EventBus,
	logger *slog.Logger,
) *MarketService {
	return &MarketService{
		markets: markets,
		cache:   cache,
		bus:     bus,
		logger:  logger,
	}
}

// CreateMarketParams carries the validated input for CreateMarket.
type CreateMarketParams struct {
	Question         string
	Description      string
	Category         string
	EndTime          time.Time
	ResolutionTime   time.Time
	InitialLiquidity decimal.Decimal
	ImageURL         *string
}

func (p CreateMarketParams) validate() error {
	if p.Question == "" {
		return domain.Invalid("question", "question is required")
	}
	if p.Description == "" {
		return domain.Invalid("description", "description is required")
	}
	if p.Category == "" {
		return domain.Invalid("category", "category is required")
	}
	if p.EndTime.IsZero() {
		return domain.Invalid("endTime", "endTime is required")
	}
	if p.ResolutionTime.IsZero() {
		return domain.Invalid("resolutionTime", "resolutionTime is required")
	}
	if p.ResolutionTime.Before(p.EndTime) {
		return domain.Invalid("resolutionTime", "resolutionTime must not be before endTime")
	}
	if p.InitialLiquidity.LessThan(minInitialLiquidity) {
		return domain.Invalid("initialLiquidity", "initialLiquidity must be at least 0.2")
	}
	return nil
}

// CreateMarket seeds a new market: the initial liquidity is split evenly
// between the YES and NO pools and recorded as the starting volume.
func (s *MarketService) CreateMarket(ctx context.Context, p CreateMarketParams) (domain.Market, error) {
	if err := p.validate(); err != nil {
		return domain.Market{}, err
	}

	half := p.InitialLiquidity.Div(two)
	market := domain.Market{
		Question:       p.Question,
		Description:    p.Description,
		Category:       p.Category,
		EndTime:        p.EndTime,
		ResolutionTime: p.ResolutionTime,
		YesLiquidity:   half,
		NoLiquidity:    half,
		TotalVolume:    p.InitialLiquidity,
		Status:         domain.MarketStatusActive,
		ImageURL:       p.ImageURL,
	}

	created, err := s.markets.Insert(ctx, market)
	if err != nil {
		return domain.Market{}, fmt.Errorf("market_service: insert: %w", err)
	}

	s.publish(ctx, domain.ChannelMarkets, domain.MarketCreatedEvent{
		Type:   domain.EventMarketCreated,
		Market: created,
	})

	s.logger.InfoContext(ctx, "market_service: market created",
		slog.Int64("market_id", created.ID),
		slog.String("category", created.Category),
		slog.String("initial_liquidity", p.InitialLiquidity.String()),
	)

	return created, nil
}

// GetMarket retrieves a market by id, checking the cache first and falling
// back to the persistent store on a miss. Cache failures are logged, never
// fatal.
func (s *MarketService) GetMarket(ctx context.Context, id int64) (domain.Market, error) {
	if s.cache != nil {
		if m, err := s.cache.Get(ctx, id); err == nil {
			return m, nil
		}
	}

	m, err := s.markets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Market{}, domain.ErrNotFound
		}
		return domain.Market{}, fmt.Errorf("market_service: get by id %d: %w", id, err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, m); cacheErr != nil {
			s.logger.WarnContext(ctx, "market_service: cache set failed",
				slog.Int64("market_id", id),
				slog.String("error", cacheErr.Error()),
			)
		}
	}

	return m, nil
}

// ListMarkets returns markets with an optional exact category filter.
func (s *MarketService) ListMarkets(ctx context.Context, category string) ([]domain.Market, error) {
	markets, err := s.markets.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("market_service: list: %w", err)
	}
	return markets, nil
}

// publish sends an event to the bus, best-effort.
func (s *MarketService) publish(ctx context.Context, channel string, v any) {
	if s.bus == nil {
		return
	}
	data, err := json.Marshal(v)
	if err == nil {
		err = s.bus.Publish(ctx, channel, data)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "market_service: event publish failed",
			slog.String("channel", channel),
			slog.String("error", err.Error()),
		)
	}
}
