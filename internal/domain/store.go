package domain

import "context"

// MarketStore persists market records.
type MarketStore interface {
	Insert(ctx context.Context, m Market) (Market, error)
	GetByID(ctx context.Context, id int64) (Market, error)
	// List returns markets filtered by exact category match. An empty string
	// or the sentinel "All" returns every market.
	List(ctx context.Context, category string) ([]Market, error)
	Count(ctx context.Context) (int64, error)
}

// CampaignStore persists campaign records and applies donations to them.
type CampaignStore interface {
	Insert(ctx context.Context, c Campaign) (Campaign, error)
	GetByID(ctx context.Context, id int64) (Campaign, error)
	List(ctx context.Context) ([]Campaign, error)
	// ApplyDonation appends the donation record and adds its amount to the
	// campaign's raised total as one atomic storage operation. The increment
	// must be expressed as a delta at the storage layer so concurrent
	// donations never lose updates. Returns ErrNotFound (and commits
	// nothing) when the campaign does not exist.
	ApplyDonation(ctx context.Context, d Donation) (Campaign, error)
}

// DonationStore reads the append-only donation ledger. Donations are only
// ever written through CampaignStore.ApplyDonation.
type DonationStore interface {
	ListByCampaign(ctx context.Context, campaignID int64) ([]Donation, error)
	ListAll(ctx context.Context) ([]Donation, error)
}
