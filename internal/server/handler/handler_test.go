package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/predictfund/predictfund/internal/service"
	"github.com/predictfund/predictfund/internal/store/memory"
)

// newTestMux wires the handlers over in-memory stores with the same route
// patterns the server registers.
func newTestMux(t *testing.T) (*http.ServeMux, *service.MarketService, *service.CampaignService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	markets := memory.NewMarketStore()
	campaigns := memory.NewCampaignStore()
	donations := memory.NewDonationStore(campaigns)

	marketSvc := service.NewMarketService(markets, nil, nil, logger)
	campaignSvc := service.NewCampaignService(campaigns, donations, nil, logger)

	mh := NewMarketHandler(marketSvc, logger)
	ch := NewCampaignHandler(campaignSvc, logger)
	hh := NewHealthHandler(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", hh.HealthCheck)
	mux.HandleFunc("GET /api/markets", mh.ListMarkets)
	mux.HandleFunc("POST /api/markets", mh.CreateMarket)
	mux.HandleFunc("GET /api/markets/{id}", mh.GetMarket)
	mux.HandleFunc("GET /api/campaigns", ch.ListCampaigns)
	mux.HandleFunc("POST /api/campaigns", ch.CreateCampaign)
	mux.HandleFunc("POST /api/campaigns/{id}/donate", ch.Donate)
	mux.HandleFunc("GET /api/campaigns/{id}/donations", ch.ListDonations)

	return mux, marketSvc, campaignSvc
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func seedMarket(t *testing.T, svc *service.MarketService) int64 {
	t.Helper()
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	m, err := svc.CreateMarket(context.Background(), service.CreateMarketParams{
		Question:         "Will AVAX reach $100 by end of 2026?",
		Description:      "Resolves YES if AVAX trades at or above $100.",
		Category:         "Crypto",
		EndTime:          end,
		ResolutionTime:   end.Add(24 * time.Hour),
		InitialLiquidity: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	return m.ID
}

func seedCampaign(t *testing.T, svc *service.CampaignService) int64 {
	t.Helper()
	c, err := svc.CreateCampaign(context.Background(), service.CreateCampaignParams{
		Title:          "Clean water for Kibera",
		Description:    "Drilling two boreholes and installing filtration.",
		TargetAmount:   decimal.NewFromInt(5000),
		CreatorAddress: "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
	})
	require.NoError(t, err)
	return c.ID
}
