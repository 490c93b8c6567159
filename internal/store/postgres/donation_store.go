package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/predictfund/predictfund/internal/domain"
)

// DonationStore implements domain.DonationStore using PostgreSQL. Donations
// are written exclusively through CampaignStore.ApplyDonation; this store is
// read-only.
type DonationStore struct {
	pool *pgxpool.Pool
}

// NewDonationStore creates a new DonationStore backed by the given pool.
func NewDonationStore(pool *pgxpool.Pool) *DonationStore {
	return &DonationStore{pool: pool}
}

const donationCols = `id, campaign_id, donor_address, amount, created_at`

func (s *DonationStore) scanAll(ctx context.Context, query string, args ...any) ([]domain.Donation, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.DonorAddress, &d.Amount, &d.CreatedAt); err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// ListByCampaign returns the donations for one campaign, oldest first.
func (s *DonationStore) ListByCampaign(ctx context.Context, campaignID int64) ([]domain.Donation, error) {
	donations, err := s.scanAll(ctx,
		`SELECT `+donationCols+` FROM donations WHERE campaign_id = $1 ORDER BY id`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list donations for campaign %d: %w", campaignID, err)
	}
	return donations, nil
}

// ListAll returns every donation, oldest first. Used by ledger snapshots.
func (s *DonationStore) ListAll(ctx context.Context) ([]domain.Donation, error) {
	donations, err := s.scanAll(ctx,
		`SELECT `+donationCols+` FROM donations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list donations: %w", err)
	}
	return donations, nil
}

// Compile-time interface check.
var _ domain.DonationStore = (*DonationStore)(nil)
