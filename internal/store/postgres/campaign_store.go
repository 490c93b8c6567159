package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/predictfund/predictfund/internal/domain"
)

// CampaignStore implements domain.CampaignStore using PostgreSQL.
type CampaignStore struct {
	pool *pgxpool.Pool
}

// NewCampaignStore creates a new CampaignStore backed by the given pool.
func NewCampaignStore(pool *pgxpool.Pool) *CampaignStore {
	return &CampaignStore{pool: pool}
}

const campaignCols = `id, title, description, target_amount, raised_amount,
	image_url, creator_address, created_at`

// scanCampaign scans a single campaign row into a domain.Campaign.
func scanCampaign(row pgx.Row) (domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(
		&c.ID, &c.Title, &c.Description,
		&c.TargetAmount, &c.RaisedAmount,
		&c.ImageURL, &c.CreatorAddress, &c.CreatedAt,
	)
	if err != nil {
		return domain.Campaign{}, err
	}
	return c, nil
}

// Insert persists a new campaign and returns the record with its generated id
// and server-assigned creation time.
func (s *CampaignStore) Insert(ctx context.Context, c domain.Campaign) (domain.Campaign, error) {
	const query = `
		INSERT INTO campaigns (
			title, description, target_amount, raised_amount, image_url, creator_address
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + campaignCols

	row := s.pool.QueryRow(ctx, query,
		c.Title, c.Description, c.TargetAmount, c.RaisedAmount,
		c.ImageURL, c.CreatorAddress,
	)
	created, err := scanCampaign(row)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("postgres: insert campaign: %w", err)
	}
	return created, nil
}

// GetByID retrieves a campaign by its primary key.
func (s *CampaignStore) GetByID(ctx context.Context, id int64) (domain.Campaign, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+campaignCols+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Campaign{}, domain.ErrNotFound
		}
		return domain.Campaign{}, fmt.Errorf("postgres: get campaign %d: %w", id, err)
	}
	return c, nil
}

// List returns all campaigns ordered by id.
func (s *CampaignStore) List(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+campaignCols+` FROM campaigns ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list campaigns rows: %w", err)
	}
	return campaigns, nil
}

// ApplyDonation appends the donation record and bumps the campaign's raised
// total in a single transaction. The increment is expressed as a SQL delta
// (raised_amount = raised_amount + $1) so concurrent donations to the same
// campaign cannot lose updates. Neither row is committed when the campaign
// does not exist.
func (s *CampaignStore) ApplyDonation(ctx context.Context, d domain.Donation) (domain.Campaign, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("postgres: begin donation tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const increment = `
		UPDATE campaigns
		SET raised_amount = raised_amount + $1
		WHERE id = $2
		RETURNING ` + campaignCols

	row := tx.QueryRow(ctx, increment, d.Amount, d.CampaignID)
	updated, err := scanCampaign(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Campaign{}, domain.ErrNotFound
		}
		return domain.Campaign{}, fmt.Errorf("postgres: increment campaign %d: %w", d.CampaignID, err)
	}

	const insert = `
		INSERT INTO donations (campaign_id, donor_address, amount)
		VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, insert, d.CampaignID, d.DonorAddress, d.Amount); err != nil {
		return domain.Campaign{}, fmt.Errorf("postgres: insert donation for campaign %d: %w", d.CampaignID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Campaign{}, fmt.Errorf("postgres: commit donation tx: %w", err)
	}
	return updated, nil
}

// Compile-time interface check.
var _ domain.CampaignStore = (*CampaignStore)(nil)
