package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/predictfund/predictfund/internal/domain"
)

// CampaignService is the campaign funding engine: it creates campaigns and
// applies donations through the store's atomic increment.
type CampaignService struct {
	campaigns domain.CampaignStore
	donations domain.DonationStore
	bus       domain.EventBus // nil disables event publishing
	logger    *slog.Logger
}

// NewCampaignService creates a CampaignService. bus may be nil.
func NewCampaignService(
	campaigns domain.CampaignStore,
	donations domain.DonationStore,
	bus domain.EventBus,
	logger *slog.Logger,
) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		donations: donations,
		bus:       bus,
		logger:    logger,
	}
}

// CreateCampaignParams carries the validated input for CreateCampaign.
type CreateCampaignParams struct {
	Title          string
	Description    string
	TargetAmount   decimal.Decimal
	ImageURL       *string
	CreatorAddress string
}

func (p CreateCampaignParams) validate() error {
	if p.Title == "" {
		return domain.Invalid("title", "title is required")
	}
	if p.Description == "" {
		return domain.Invalid("description", "description is required")
	}
	if p.TargetAmount.Sign() <= 0 {
		return domain.Invalid("targetAmount", "targetAmount must be greater than zero")
	}
	if p.CreatorAddress == "" {
		return domain.Invalid("creatorAddress", "creatorAddress is required")
	}
	if !common.IsHexAddress(p.CreatorAddress) {
		return domain.Invalid("creatorAddress", "creatorAddress is not a valid address")
	}
	return nil
}

// CreateCampaign persists a new campaign with a zero raised total.
func (s *CampaignService) CreateCampaign(ctx context.Context, p CreateCampaignParams) (domain.Campaign, error) {
	if err := p.validate(); err != nil {
		return domain.Campaign{}, err
	}

	campaign := domain.Campaign{
		Title:          p.Title,
		Description:    p.Description,
		TargetAmount:   p.TargetAmount,
		RaisedAmount:   decimal.Zero,
		ImageURL:       p.ImageURL,
		CreatorAddress: p.CreatorAddress,
	}

	created, err := s.campaigns.Insert(ctx, campaign)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("campaign_service: insert: %w", err)
	}

	s.publish(ctx, domain.ChannelCampaigns, domain.CampaignCreatedEvent{
		Type:     domain.EventCampaignCreated,
		Campaign: created,
	})

	s.logger.InfoContext(ctx, "campaign_service: campaign created",
		slog.Int64("campaign_id", created.ID),
		slog.String("target", created.TargetAmount.String()),
	)

	return created, nil
}

// ListCampaigns returns all campaigns.
func (s *CampaignService) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("campaign_service: list: %w", err)
	}
	return campaigns, nil
}

// Donate validates and applies a donation. The record append and the raised
// total increment happen as one atomic operation at the storage layer, so a
// failed lookup commits nothing and concurrent donations cannot lose updates.
// Donations past the target are accepted.
func (s *CampaignService) Donate(ctx context.Context, campaignID int64, amount decimal.Decimal, donorAddress string) (domain.Campaign, error) {
	if amount.Sign() <= 0 {
		return domain.Campaign{}, domain.Invalid("amount", "amount must be greater than zero")
	}
	if donorAddress == "" {
		return domain.Campaign{}, domain.Invalid("donorAddress", "donorAddress is required")
	}
	if !common.IsHexAddress(donorAddress) {
		return domain.Campaign{}, domain.Invalid("donorAddress", "donorAddress is not a valid address")
	}

	donation := domain.Donation{
		CampaignID:   campaignID,
		DonorAddress: donorAddress,
		Amount:       amount,
	}

	updated, err := s.campaigns.ApplyDonation(ctx, donation)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Campaign{}, domain.ErrNotFound
		}
		return domain.Campaign{}, fmt.Errorf("campaign_service: donate to %d: %w", campaignID, err)
	}

	s.publish(ctx, domain.ChannelDonations, domain.DonationEvent{
		Type:     domain.EventDonation,
		Donation: donation,
		Campaign: updated,
	})

	s.logger.InfoContext(ctx, "campaign_service: donation applied",
		slog.Int64("campaign_id", campaignID),
		slog.String("amount", amount.String()),
		slog.String("raised", updated.RaisedAmount.String()),
	)

	return updated, nil
}

// ListDonations returns the donation history for one campaign. It returns
// ErrNotFound when the campaign itself does not exist.
func (s *CampaignService) ListDonations(ctx context.Context, campaignID int64) ([]domain.Donation, error) {
	if _, err := s.campaigns.GetByID(ctx, campaignID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("campaign_service: get campaign %d: %w", campaignID, err)
	}

	donations, err := s.donations.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign_service: list donations for %d: %w", campaignID, err)
	}
	return donations, nil
}

// publish sends an event to the bus, best-effort.
func (s *CampaignService) publish(ctx context.Context, channel string, v any) {
	if s.bus == nil {
		return
	}
	data, err := json.Marshal(v)
	if err == nil {
		err = s.bus.Publish(ctx, channel, data)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "campaign_service: event publish failed",
			slog.String("channel", channel),
			slog.String("error", err.Error()),
		)
	}
}
