package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCampaignEndpoint(t *testing.T) {
	mux, _, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/campaigns", `{
		"title": "Solar panels for the village school",
		"description": "Install a 10kW rooftop array.",
		"targetAmount": 8000,
		"creatorAddress": "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "0", body["raisedAmount"])
	assert.Equal(t, "8000", body["targetAmount"])
	assert.NotEmpty(t, body["createdAt"])
}

func TestCreateCampaignValidationErrors(t *testing.T) {
	mux, _, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/campaigns", `{
		"title": "T",
		"description": "D",
		"targetAmount": 100,
		"creatorAddress": "not-an-address"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "creatorAddress", body.Field)
}

func TestDonateEndpoint(t *testing.T) {
	mux, _, campaignSvc := newTestMux(t)
	seedCampaign(t, campaignSvc)

	rec := doRequest(t, mux, http.MethodPost, "/api/campaigns/1/donate", `{
		"amount": 150,
		"donorAddress": "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "150", body["raisedAmount"])

	rec = doRequest(t, mux, http.MethodPost, "/api/campaigns/1/donate", `{
		"amount": "49.5",
		"donorAddress": "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody[map[string]any](t, rec)
	assert.Equal(t, "199.5", body["raisedAmount"])
}

func TestDonateRejectsNonPositiveAmount(t *testing.T) {
	mux, _, campaignSvc := newTestMux(t)
	seedCampaign(t, campaignSvc)

	rec := doRequest(t, mux, http.MethodPost, "/api/campaigns/1/donate", `{
		"amount": 0,
		"donorAddress": "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "amount", body.Field)

	// The failed donation must not appear in the history.
	rec = doRequest(t, mux, http.MethodGet, "/api/campaigns/1/donations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	donations := decodeBody[[]map[string]any](t, rec)
	assert.Empty(t, donations)
}

func TestDonateMissingCampaign(t *testing.T) {
	mux, _, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/campaigns/42/donate", `{
		"amount": 10,
		"donorAddress": "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"
	}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "Campaign not found", body.Message)
}

func TestDonateInvalidID(t *testing.T) {
	mux, _, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/campaigns/abc/donate", `{
		"amount": 10,
		"donorAddress": "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "Invalid ID format", body.Message)
}

func TestListCampaignsEndpoint(t *testing.T) {
	mux, _, campaignSvc := newTestMux(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/campaigns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	seedCampaign(t, campaignSvc)
	seedCampaign(t, campaignSvc)

	rec = doRequest(t, mux, http.MethodGet, "/api/campaigns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[[]map[string]any](t, rec)
	assert.Len(t, body, 2)
}

func TestListDonationsEndpoint(t *testing.T) {
	mux, _, campaignSvc := newTestMux(t)
	seedCampaign(t, campaignSvc)

	for _, amount := range []string{"10", "20"} {
		rec := doRequest(t, mux, http.MethodPost, "/api/campaigns/1/donate", `{
			"amount": `+amount+`,
			"donorAddress": "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"
		}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(t, mux, http.MethodGet, "/api/campaigns/1/donations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	donations := decodeBody[[]map[string]any](t, rec)
	require.Len(t, donations, 2)
	assert.Equal(t, "10", donations[0]["amount"])
	assert.Equal(t, "20", donations[1]["amount"])
	assert.NotEmpty(t, donations[0]["timestamp"])
}

func TestListDonationsMissingCampaign(t *testing.T) {
	mux, _, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/campaigns/7/donations", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
