package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/predictfund/predictfund/internal/domain"
)

// CampaignStore is an in-memory implementation of domain.CampaignStore. It
// also owns the donation ledger so that ApplyDonation can append the record
// and bump the raised total inside one critical section.
type CampaignStore struct {
	mu             sync.RWMutex
	nextID         int64
	nextDonationID int64
	data           map[int64]domain.Campaign
	donations      []domain.Donation
}

// NewCampaignStore creates a new in-memory campaign store.
func NewCampaignStore() *CampaignStore {
	return &CampaignStore{data: make(map[int64]domain.Campaign)}
}

// Insert assigns the next id and a creation time, then stores the campaign.
func (s *CampaignStore) Insert(_ context.Context, c domain.Campaign) (domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c.ID = s.nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.data[c.ID] = c
	return c, nil
}

// GetByID returns the campaign with the given id, or ErrNotFound.
func (s *CampaignStore) GetByID(_ context.Context, id int64) (domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[id]
	if !ok {
		return domain.Campaign{}, domain.ErrNotFound
	}
	return c, nil
}

// List returns all campaigns ordered by id.
func (s *CampaignStore) List(_ context.Context) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaigns := make([]domain.Campaign, 0, len(s.data))
	for _, c := range s.data {
		campaigns = append(campaigns, c)
	}
	sort.Slice(campaigns, func(i, j int) bool { return campaigns[i].ID < campaigns[j].ID })
	return campaigns, nil
}

// ApplyDonation appends the donation record and adds its amount to the
// campaign's raised total under a single lock, mirroring the transactional
// SQL delta of the postgres driver. Nothing is recorded when the campaign
// does not exist.
func (s *CampaignStore) ApplyDonation(_ context.Context, d domain.Donation) (domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.data[d.CampaignID]
	if !ok {
		return domain.Campaign{}, domain.ErrNotFound
	}

	s.nextDonationID++
	d.ID = s.nextDonationID
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	s.donations = append(s.donations, d)

	c.RaisedAmount = c.RaisedAmount.Add(d.Amount)
	s.data[c.ID] = c
	return c, nil
}

// Compile-time interface check.
var _ domain.CampaignStore = (*CampaignStore)(nil)
