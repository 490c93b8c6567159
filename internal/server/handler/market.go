package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/predictfund/predictfund/internal/domain"
	"github.com/predictfund/predictfund/internal/service"
)

// MarketService defines the methods that the market handler requires from the
// service layer. It is declared locally so the handler package does not depend
// on the concrete service implementation.
type MarketService interface {
	CreateMarket(ctx context.Context, p service.CreateMarketParams) (domain.Market, error)
	GetMarket(ctx context.Context, id int64) (domain.Market, error)
	ListMarkets(ctx context.Context, category string) ([]domain.Market, error)
}

// MarketHandler serves market-related HTTP endpoints.
type MarketHandler struct {
	markets MarketService
	logger  *slog.Logger
}

// NewMarketHandler creates a MarketHandler with the given service and logger.
func NewMarketHandler(markets MarketService, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		markets: markets,
		logger:  logger,
	}
}

// marketResponse decorates a market record with its implied probabilities,
// which are derived from the pools and never persisted.
type marketResponse struct {
	domain.Market
	YesOdds int64 `json:"yesOdds"`
	NoOdds  int64 `json:"noOdds"`
}

func toMarketResponse(m domain.Market) marketResponse {
	yes, no := m.Odds()
	return marketResponse{Market: m, YesOdds: yes, NoOdds: no}
}

// ListMarkets returns markets, optionally filtered by exact category.
// GET /api/markets?category=Crypto
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	markets, err := h.markets.ListMarkets(r.Context(), category)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list markets failed",
			slog.String("error", err.Error()),
		)
		writeInternalError(w)
		return
	}

	out := make([]marketResponse, 0, len(markets))
	for _, m := range markets {
		out = append(out, toMarketResponse(m))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetMarket returns a single market by its ID.
// GET /api/markets/{id}
func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	market, err := h.markets.GetMarket(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Market not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get market failed",
			slog.Int64("market_id", id),
			slog.String("error", err.Error()),
		)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toMarketResponse(market))
}

// createMarketRequest is the JSON body for market creation. Decimal fields
// accept either JSON numbers or strings.
type createMarketRequest struct {
	Question         string          `json:"question"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	EndTime          time.Time       `json:"endTime"`
	ResolutionTime   time.Time       `json:"resolutionTime"`
	InitialLiquidity decimal.Decimal `json:"initialLiquidity"`
	ImageURL         *string         `json:"imageUrl"`
}

// CreateMarket creates a new market from a JSON body.
// POST /api/markets
func (h *MarketHandler) CreateMarket(w http.ResponseWriter, r *http.Request) {
	var req createMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	market, err := h.markets.CreateMarket(r.Context(), service.CreateMarketParams{
		Question:         req.Question,
		Description:      req.Description,
		Category:         req.Category,
		EndTime:          req.EndTime,
		ResolutionTime:   req.ResolutionTime,
		InitialLiquidity: req.InitialLiquidity,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			writeValidationError(w, ve)
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: create market failed",
			slog.String("error", err.Error()),
		)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, toMarketResponse(market))
}
