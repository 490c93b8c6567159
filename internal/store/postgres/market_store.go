package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/predictfund/predictfund/internal/domain"
)

// MarketStore implements domain.MarketStore using PostgreSQL.
type MarketStore struct {
	pool *pgxpool.Pool
}

// NewMarketStore creates a new MarketStore backed by the given connection pool.
func NewMarketStore(pool *pgxpool.Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

const marketCols = `id, question, description, category, end_time, resolution_time,
	yes_liquidity, no_liquidity, total_volume, status, resolved_outcome, image_url`

// scanMarket scans a single market row into a domain.Market.
func scanMarket(row pgx.Row) (domain.Market, error) {
	var m domain.Market
	var status string
	var outcome *string
	err := row.Scan(
		&m.ID, &m.Question, &m.Description, &m.Category,
		&m.EndTime, &m.ResolutionTime,
		&m.YesLiquidity, &m.NoLiquidity, &m.TotalVolume,
		&status, &outcome, &m.ImageURL,
	)
	if err != nil {
		return domain.Market{}, err
	}
	m.Status = domain.MarketStatus(status)
	if outcome != nil {
		o := domain.Outcome(*outcome)
		m.ResolvedOutcome = &o
	}
	return m, nil
}

// Insert persists a new market and returns the record with its generated id.
func (s *MarketStore) Insert(ctx context.Context, m domain.Market) (domain.Market, error) {
	const query = `
		INSERT INTO markets (
			question, description, category, end_time, resolution_time,
			yes_liquidity, no_liquidity, total_volume, status, resolved_outcome, image_url
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11
		)
		RETURNING ` + marketCols

	var outcome *string
	if m.ResolvedOutcome != nil {
		o := string(*m.ResolvedOutcome)
		outcome = &o
	}

	row := s.pool.QueryRow(ctx, query,
		m.Question, m.Description, m.Category, m.EndTime, m.ResolutionTime,
		m.YesLiquidity, m.NoLiquidity, m.TotalVolume,
		string(m.Status), outcome, m.ImageURL,
	)
	created, err := scanMarket(row)
	if err != nil {
		return domain.Market{}, fmt.Errorf("postgres: insert market: %w", err)
	}
	return created, nil
}

// GetByID retrieves a market by its primary key.
func (s *MarketStore) GetByID(ctx context.Context, id int64) (domain.Market, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+marketCols+` FROM markets WHERE id = $1`, id)
	m, err := scanMarket(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Market{}, domain.ErrNotFound
		}
		return domain.Market{}, fmt.Errorf("postgres: get market %d: %w", id, err)
	}
	return m, nil
}

// List returns markets with an optional exact category filter. An empty
// category or "All" returns every market, ordered by id.
func (s *MarketStore) List(ctx context.Context, category string) ([]domain.Market, error) {
	query := `SELECT ` + marketCols + ` FROM markets`
	args := []any{}
	if category != "" && category != "All" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list markets: %w", err)
	}
	defer rows.Close()

	var markets []domain.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan market: %w", err)
		}
		markets = append(markets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list markets rows: %w", err)
	}
	return markets, nil
}

// Count returns the total number of markets.
func (s *MarketStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM markets").Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count markets: %w", err)
	}
	return count, nil
}

// Compile-time interface check.
var _ domain.MarketStore = (*MarketStore)(nil)
