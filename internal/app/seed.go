package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/predictfund/predictfund/internal/domain"
)

// demoMarkets are inserted on startup when seeding is enabled and the market
// table is empty, so a fresh install has something to show.
func demoMarkets(now time.Time) []domain.Market {
	endOfYear := time.Date(now.Year(), 12, 31, 23, 59, 59, 0, time.UTC)
	return []domain.Market{
		{
			Question:       "Will AVAX reach $100 by end of 2026?",
			Description:    "Resolves YES if AVAX trades at or above $100 on any major exchange before the deadline.",
			Category:       "Crypto",
			EndTime:        endOfYear,
			ResolutionTime: endOfYear.Add(24 * time.Hour),
			YesLiquidity:   decimal.NewFromInt(250),
			NoLiquidity:    decimal.NewFromInt(250),
			TotalVolume:    decimal.NewFromInt(500),
			Status:         domain.MarketStatusActive,
		},
		{
			Question:       "Will an AI system pass a public Turing test this year?",
			Description:    "Resolves YES if a major research lab announces a system that passes a publicly adjudicated Turing test.",
			Category:       "Tech",
			EndTime:        endOfYear,
			ResolutionTime: endOfYear.Add(24 * time.Hour),
			YesLiquidity:   decimal.NewFromInt(100),
			NoLiquidity:    decimal.NewFromInt(100),
			TotalVolume:    decimal.NewFromInt(200),
			Status:         domain.MarketStatusActive,
		},
		{
			Question:       "Will France win the 2026 World Cup?",
			Description:    "Resolves YES if France wins the 2026 FIFA World Cup final.",
			Category:       "Sports",
			EndTime:        time.Date(2026, 7, 19, 0, 0, 0, 0, time.UTC),
			ResolutionTime: time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
			YesLiquidity:   decimal.NewFromInt(75),
			NoLiquidity:    decimal.NewFromInt(75),
			TotalVolume:    decimal.NewFromInt(150),
			Status:         domain.MarketStatusActive,
		},
	}
}

// seedMarkets inserts the demo markets when the store is empty. It is a no-op
// when markets already exist.
func seedMarkets(ctx context.Context, store domain.MarketStore, logger *slog.Logger) error {
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("app: count markets: %w", err)
	}
	if count > 0 {
		return nil
	}

	markets := demoMarkets(time.Now().UTC())
	for _, m := range markets {
		if _, err := store.Insert(ctx, m); err != nil {
			return fmt.Errorf("app: seed market %q: %w", m.Question, err)
		}
	}

	logger.InfoContext(ctx, "seeded demo markets", slog.Int("count", len(markets)))
	return nil
}
