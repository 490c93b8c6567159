package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign is a donation campaign with a funding target. RaisedAmount has no
// upper bound: donations past the target are accepted (overfunding).
type Campaign struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	RaisedAmount   decimal.Decimal `json:"raisedAmount"`
	ImageURL       *string         `json:"imageUrl"`
	CreatorAddress string          `json:"creatorAddress"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Donation is one append-only contribution record. Each donation corresponds
// to exactly one increment of its campaign's raised total.
type Donation struct {
	ID           int64           `json:"id"`
	CampaignID   int64           `json:"campaignId"`
	DonorAddress string          `json:"donorAddress"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"timestamp"`
}
