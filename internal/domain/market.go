package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketStatus represents the lifecycle state of a prediction market.
type MarketStatus string

const (
	MarketStatusActive   MarketStatus = "active"
	MarketStatusResolved MarketStatus = "resolved"
	MarketStatusClosed   MarketStatus = "closed"
)

// Outcome is the side a resolved market settled on.
type Outcome string

const (
	OutcomeYes Outcome = "YES"
	OutcomeNo  Outcome = "NO"
)

// Market is a binary YES/NO prediction market backed by two liquidity pools.
// The pools only drive the displayed odds; no trade ever mutates them.
type Market struct {
	ID              int64           `json:"id"`
	Question        string          `json:"question"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	EndTime         time.Time       `json:"endTime"`
	ResolutionTime  time.Time       `json:"resolutionTime"`
	YesLiquidity    decimal.Decimal `json:"yesLiquidity"`
	NoLiquidity     decimal.Decimal `json:"noLiquidity"`
	TotalVolume     decimal.Decimal `json:"totalVolume"`
	Status          MarketStatus    `json:"status"`
	ResolvedOutcome *Outcome        `json:"resolvedOutcome"`
	ImageURL        *string         `json:"imageUrl"`
}

// Odds returns the implied YES and NO probabilities as whole percentages.
// NO is derived as the complement so the pair always sums to exactly 100.
// An empty pool reads as an even 50/50.
func (m Market) Odds() (yes, no int64) {
	total := m.YesLiquidity.Add(m.NoLiquidity)
	if total.Sign() <= 0 {
		return 50, 50
	}
	yes = m.YesLiquidity.Div(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return yes, 100 - yes
}
