// Package memory provides in-memory implementations of the domain store
// interfaces. They back the "memory" storage driver for local development and
// serve as the substrate for unit tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/predictfund/predictfund/internal/domain"
)

// MarketStore is an in-memory implementation of domain.MarketStore.
type MarketStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]domain.Market
}

// NewMarketStore creates a new in-memory market store.
func NewMarketStore() *MarketStore {
	return &MarketStore{data: make(map[int64]domain.Market)}
}

// Insert assigns the next id and stores a copy of the market.
func (s *MarketStore) Insert(_ context.Context, m domain.Market) (domain.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	m.ID = s.nextID
	s.data[m.ID] = m
	return m, nil
}

// GetByID returns the market with the given id, or ErrNotFound.
func (s *MarketStore) GetByID(_ context.Context, id int64) (domain.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.data[id]
	if !ok {
		return domain.Market{}, domain.ErrNotFound
	}
	return m, nil
}

// List returns markets filtered by exact category match, ordered by id.
// An empty category or "All" returns every market.
func (s *MarketStore) List(_ context.Context, category string) ([]domain.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var markets []domain.Market
	for _, m := range s.data {
		if category != "" && category != "All" && m.Category != category {
			continue
		}
		markets = append(markets, m)
	}

	sort.Slice(markets, func(i, j int) bool { return markets[i].ID < markets[j].ID })
	return markets, nil
}

// Count returns the number of stored markets.
func (s *MarketStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

// Compile-time interface check.
var _ domain.MarketStore = (*MarketStore)(nil)
