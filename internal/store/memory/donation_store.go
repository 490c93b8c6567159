package memory

import (
	"context"

	"github.com/predictfund/predictfund/internal/domain"
)

// DonationStore is a read-only view over the donation ledger held by a
// CampaignStore.
type DonationStore struct {
	campaigns *CampaignStore
}

// NewDonationStore creates a DonationStore reading from the given campaign
// store.
func NewDonationStore(campaigns *CampaignStore) *DonationStore {
	return &DonationStore{campaigns: campaigns}
}

// ListByCampaign returns the donations for one campaign, oldest first.
func (s *DonationStore) ListByCampaign(_ context.Context, campaignID int64) ([]domain.Donation, error) {
	s.campaigns.mu.RLock()
	defer s.campaigns.mu.RUnlock()

	var donations []domain.Donation
	for _, d := range s.campaigns.donations {
		if d.CampaignID == campaignID {
			donations = append(donations, d)
		}
	}
	return donations, nil
}

// ListAll returns every donation, oldest first.
func (s *DonationStore) ListAll(_ context.Context) ([]domain.Donation, error) {
	s.campaigns.mu.RLock()
	defer s.campaigns.mu.RUnlock()

	donations := make([]domain.Donation, len(s.campaigns.donations))
	copy(donations, s.campaigns.donations)
	return donations, nil
}

// Compile-time interface check.
var _ domain.DonationStore = (*DonationStore)(nil)
