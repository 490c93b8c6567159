package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/predictfund/predictfund/internal/domain"
	"github.com/predictfund/predictfund/internal/service"
)

// CampaignService defines the methods that the campaign handler requires from
// the service layer.
type CampaignService interface {
	CreateCampaign(ctx context.Context, p service.CreateCampaignParams) (domain.Campaign, error)
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	Donate(ctx context.Context, campaignID int64, amount decimal.Decimal, donorAddress string) (domain.Campaign, error)
	ListDonations(ctx context.Context, campaignID int64) ([]domain.Donation, error)
}

// CampaignHandler serves campaign and donation HTTP endpoints.
type CampaignHandler struct {
	campaigns CampaignService
	logger    *slog.Logger
}

// NewCampaignHandler creates a CampaignHandler with the given service and logger.
func NewCampaignHandler(campaigns CampaignService, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaigns: campaigns,
		logger:    logger,
	}
}

// ListCampaigns returns all campaigns.
// GET /api/campaigns
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.ListCampaigns(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list campaigns failed",
			slog.String("error", err.Error()),
		)
		writeInternalError(w)
		return
	}

	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// createCampaignRequest is the JSON body for campaign creation.
type createCampaignRequest struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	ImageURL       *string         `json:"imageUrl"`
	CreatorAddress string          `json:"creatorAddress"`
}

// CreateCampaign creates a new campaign from a JSON body.
// POST /api/campaigns
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	campaign, err := h.campaigns.CreateCampaign(r.Context(), service.CreateCampaignParams{
		Title:          req.Title,
		Description:    req.Description,
		TargetAmount:   req.TargetAmount,
		ImageURL:       req.ImageURL,
		CreatorAddress: req.CreatorAddress,
	})
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			writeValidationError(w, ve)
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: create campaign failed",
			slog.String("error", err.Error()),
		)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

// donateRequest is the JSON body for a donation.
type donateRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	DonorAddress string          `json:"donorAddress"`
}

// Donate applies a donation to a campaign and returns the updated record.
// POST /api/campaigns/{id}/donate
func (h *CampaignHandler) Donate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var req donateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	campaign, err := h.campaigns.Donate(r.Context(), id, req.Amount, req.DonorAddress)
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			writeValidationError(w, ve)
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Campaign not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: donate failed",
			slog.Int64("campaign_id", id),
			slog.String("error", err.Error()),
		)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

// ListDonations returns the donation history for a campaign.
// GET /api/campaigns/{id}/donations
func (h *CampaignHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	donations, err := h.campaigns.ListDonations(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Campaign not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: list donations failed",
			slog.Int64("campaign_id", id),
			slog.String("error", err.Error()),
		)
		writeInternalError(w)
		return
	}

	if donations == nil {
		donations = []domain.Donation{}
	}
	writeJSON(w, http.StatusOK, donations)
}
