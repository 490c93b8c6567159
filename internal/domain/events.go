package domain

// Event bus channels consumed by the WebSocket hub.
const (
	ChannelMarkets   = "markets"
	ChannelCampaigns = "campaigns"
	ChannelDonations = "donations"
)

// Event types carried in the "type" field of published payloads.
const (
	EventMarketCreated   = "market_created"
	EventCampaignCreated = "campaign_created"
	EventDonation        = "donation"
)

// MarketCreatedEvent is published when a market is created.
type MarketCreatedEvent struct {
	Type   string `json:"type"`
	Market Market `json:"market"`
}

// CampaignCreatedEvent is published when a campaign is created.
type CampaignCreatedEvent struct {
	Type     string   `json:"type"`
	Campaign Campaign `json:"campaign"`
}

// DonationEvent is published after a donation has been applied. Campaign
// carries the post-increment raised total.
type DonationEvent struct {
	Type     string   `json:"type"`
	Donation Donation `json:"donation"`
	Campaign Campaign `json:"campaign"`
}
