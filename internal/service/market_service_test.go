package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictfund/predictfund/internal/domain"
	"github.com/predictfund/predictfund/internal/store/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingBus captures published events for assertions.
type recordingBus struct {
	mu       sync.Mutex
	payloads map[string][][]byte
}

func newRecordingBus() *recordingBus {
	return &recordingBus{payloads: make(map[string][][]byte)}
}

func (b *recordingBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payloads[channel] = append(b.payloads[channel], payload)
	return nil
}

func (b *recordingBus) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}

func (b *recordingBus) published(channel string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.payloads[channel]
}

func validMarketParams() CreateMarketParams {
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	return CreateMarketParams{
		Question:         "Will AVAX reach $100 by end of 2026?",
		Description:      "Resolves YES if AVAX trades at or above $100.",
		Category:         "Crypto",
		EndTime:          end,
		ResolutionTime:   end.Add(24 * time.Hour),
		InitialLiquidity: decimal.NewFromInt(500),
	}
}

func TestCreateMarketSplitsLiquidity(t *testing.T) {
	svc := NewMarketService(memory.NewMarketStore(), nil, nil, discardLogger())

	m, err := svc.CreateMarket(context.Background(), validMarketParams())
	require.NoError(t, err)

	assert.Equal(t, int64(1), m.ID)
	assert.True(t, m.YesLiquidity.Equal(decimal.NewFromInt(250)), "yes pool = %s", m.YesLiquidity)
	assert.True(t, m.NoLiquidity.Equal(decimal.NewFromInt(250)), "no pool = %s", m.NoLiquidity)
	assert.True(t, m.TotalVolume.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, domain.MarketStatusActive, m.Status)

	yes, no := m.Odds()
	assert.Equal(t, int64(50), yes)
	assert.Equal(t, int64(50), no)
}

func TestCreateMarketValidation(t *testing.T) {
	svc := NewMarketService(memory.NewMarketStore(), nil, nil, discardLogger())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateMarketParams)
		field  string
	}{
		{"missing question", func(p *CreateMarketParams) { p.Question = "" }, "question"},
		{"missing description", func(p *CreateMarketParams) { p.Description = "" }, "description"},
		{"missing category", func(p *CreateMarketParams) { p.Category = "" }, "category"},
		{"zero end time", func(p *CreateMarketParams) { p.EndTime = time.Time{} }, "endTime"},
		{"zero resolution time", func(p *CreateMarketParams) { p.ResolutionTime = time.Time{} }, "resolutionTime"},
		{
			"resolution before end",
			func(p *CreateMarketParams) { p.ResolutionTime = p.EndTime.Add(-time.Hour) },
			"resolutionTime",
		},
		{
			"liquidity below minimum",
			func(p *CreateMarketParams) { p.InitialLiquidity = decimal.RequireFromString("0.1") },
			"initialLiquidity",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validMarketParams()
			tc.mutate(&p)

			_, err := svc.CreateMarket(ctx, p)
			require.Error(t, err)

			ve, ok := domain.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestCreateMarketAcceptsMinimumLiquidity(t *testing.T) {
	svc := NewMarketService(memory.NewMarketStore(), nil, nil, discardLogger())

	p := validMarketParams()
	p.InitialLiquidity = decimal.RequireFromString("0.2")

	m, err := svc.CreateMarket(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, m.YesLiquidity.Equal(decimal.RequireFromString("0.1")))
}

func TestCreateMarketPublishesEvent(t *testing.T) {
	bus := newRecordingBus()
	svc := NewMarketService(memory.NewMarketStore(), nil, bus, discardLogger())

	created, err := svc.CreateMarket(context.Background(), validMarketParams())
	require.NoError(t, err)

	payloads := bus.published(domain.ChannelMarkets)
	require.Len(t, payloads, 1)

	var evt domain.MarketCreatedEvent
	require.NoError(t, json.Unmarshal(payloads[0], &evt))
	assert.Equal(t, domain.EventMarketCreated, evt.Type)
	assert.Equal(t, created.ID, evt.Market.ID)
}

func TestGetMarketNotFound(t *testing.T) {
	svc := NewMarketService(memory.NewMarketStore(), nil, nil, discardLogger())

	_, err := svc.GetMarket(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// stubCache fails every Get so the service must fall back to the store, and
// records Sets so the backfill can be asserted.
type stubCache struct {
	mu   sync.Mutex
	sets []domain.Market
}

func (c *stubCache) Get(context.Context, int64) (domain.Market, error) {
	return domain.Market{}, domain.ErrNotFound
}

func (c *stubCache) Set(_ context.Context, m domain.Market) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets = append(c.sets, m)
	return nil
}

func (c *stubCache) Invalidate(context.Context, int64) error { return nil }

func TestGetMarketBackfillsCacheOnMiss(t *testing.T) {
	store := memory.NewMarketStore()
	cache := &stubCache{}
	svc := NewMarketService(store, cache, nil, discardLogger())

	created, err := svc.CreateMarket(context.Background(), validMarketParams())
	require.NoError(t, err)

	got, err := svc.GetMarket(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	cache.mu.Lock()
	defer cache.mu.Unlock()
	require.Len(t, cache.sets, 1)
	assert.Equal(t, created.ID, cache.sets[0].ID)
}

func TestListMarketsFiltersByCategory(t *testing.T) {
	svc := NewMarketService(memory.NewMarketStore(), nil, nil, discardLogger())
	ctx := context.Background()

	for _, category := range []string{"Crypto", "Sports", "Crypto"} {
		p := validMarketParams()
		p.Category = category
		_, err := svc.CreateMarket(ctx, p)
		require.NoError(t, err)
	}

	crypto, err := svc.ListMarkets(ctx, "Crypto")
	require.NoError(t, err)
	assert.Len(t, crypto, 2)

	all, err := svc.ListMarkets(ctx, "All")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := svc.ListMarkets(ctx, "Politics")
	require.NoError(t, err)
	assert.Empty(t, none)
}
