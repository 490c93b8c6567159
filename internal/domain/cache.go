package domain

import (
	"context"
	"time"
)

// MarketCache is a read-through cache for market records keyed by id.
// Implementations return ErrNotFound on a miss.
type MarketCache interface {
	Get(ctx context.Context, id int64) (Market, error)
	Set(ctx context.Context, m Market) error
	Invalidate(ctx context.Context, id int64) error
}

// RateLimiter answers whether a keyed request is allowed under a rolling
// limit of `limit` requests per `window`.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventBus carries ephemeral JSON events from the engines to connected UI
// clients. Delivery is best-effort; publishing must never fail a request.
type EventBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
