package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/predictfund/predictfund/internal/domain"
)

const defaultMarketTTL = 5 * time.Minute

// MarketCache implements domain.MarketCache using JSON-serialized market
// records under string keys.
//
// Key schema:
//
//	market:{id} - JSON-encoded domain.Market
type MarketCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMarketCache creates a MarketCache backed by the given Client. A zero or
// negative ttl falls back to the 5-minute default.
func NewMarketCache(c *Client, ttl time.Duration) *MarketCache {
	if ttl <= 0 {
		ttl = defaultMarketTTL
	}
	return &MarketCache{rdb: c.Underlying(), ttl: ttl}
}

func marketKey(id int64) string {
	return "market:" + strconv.FormatInt(id, 10)
}

// Set stores a market in the cache with the configured TTL.
func (mc *MarketCache) Set(ctx context.Context, market domain.Market) error {
	data, err := json.Marshal(market)
	if err != nil {
		return fmt.Errorf("redis: marshal market %d: %w", market.ID, err)
	}

	if err := mc.rdb.Set(ctx, marketKey(market.ID), data, mc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set market %d: %w", market.ID, err)
	}
	return nil
}

// Get retrieves a market by its id. It returns domain.ErrNotFound when the
// key does not exist.
func (mc *MarketCache) Get(ctx context.Context, id int64) (domain.Market, error) {
	data, err := mc.rdb.Get(ctx, marketKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Market{}, domain.ErrNotFound
		}
		return domain.Market{}, fmt.Errorf("redis: get market %d: %w", id, err)
	}

	var market domain.Market
	if err := json.Unmarshal(data, &market); err != nil {
		return domain.Market{}, fmt.Errorf("redis: unmarshal market %d: %w", id, err)
	}
	return market, nil
}

// Invalidate removes a market from the cache.
func (mc *MarketCache) Invalidate(ctx context.Context, id int64) error {
	if err := mc.rdb.Del(ctx, marketKey(id)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate market %d: %w", id, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.MarketCache = (*MarketCache)(nil)
