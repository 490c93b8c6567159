package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictfund/predictfund/internal/domain"
	"github.com/predictfund/predictfund/internal/store/memory"
)

const (
	creatorAddr = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	donorAddr   = "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"
)

func newCampaignService(bus domain.EventBus) (*CampaignService, *memory.CampaignStore) {
	campaigns := memory.NewCampaignStore()
	donations := memory.NewDonationStore(campaigns)
	return NewCampaignService(campaigns, donations, bus, discardLogger()), campaigns
}

func validCampaignParams() CreateCampaignParams {
	return CreateCampaignParams{
		Title:          "Clean water for Kibera",
		Description:    "Drilling two boreholes and installing filtration.",
		TargetAmount:   decimal.NewFromInt(5000),
		CreatorAddress: creatorAddr,
	}
}

func TestCreateCampaignStartsAtZeroRaised(t *testing.T) {
	svc, _ := newCampaignService(nil)

	c, err := svc.CreateCampaign(context.Background(), validCampaignParams())
	require.NoError(t, err)

	assert.Equal(t, int64(1), c.ID)
	assert.True(t, c.RaisedAmount.IsZero(), "raised = %s", c.RaisedAmount)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestCreateCampaignValidation(t *testing.T) {
	svc, _ := newCampaignService(nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateCampaignParams)
		field  string
	}{
		{"missing title", func(p *CreateCampaignParams) { p.Title = "" }, "title"},
		{"missing description", func(p *CreateCampaignParams) { p.Description = "" }, "description"},
		{"zero target", func(p *CreateCampaignParams) { p.TargetAmount = decimal.Zero }, "targetAmount"},
		{
			"negative target",
			func(p *CreateCampaignParams) { p.TargetAmount = decimal.NewFromInt(-5) },
			"targetAmount",
		},
		{"missing creator", func(p *CreateCampaignParams) { p.CreatorAddress = "" }, "creatorAddress"},
		{
			"malformed creator address",
			func(p *CreateCampaignParams) { p.CreatorAddress = "not-an-address" },
			"creatorAddress",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validCampaignParams()
			tc.mutate(&p)

			_, err := svc.CreateCampaign(ctx, p)
			require.Error(t, err)

			ve, ok := domain.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestDonateIncrementsRaisedTotal(t *testing.T) {
	svc, _ := newCampaignService(nil)
	ctx := context.Background()

	c, err := svc.CreateCampaign(ctx, validCampaignParams())
	require.NoError(t, err)

	updated, err := svc.Donate(ctx, c.ID, decimal.NewFromInt(150), donorAddr)
	require.NoError(t, err)
	assert.True(t, updated.RaisedAmount.Equal(decimal.NewFromInt(150)))

	updated, err = svc.Donate(ctx, c.ID, decimal.RequireFromString("49.5"), donorAddr)
	require.NoError(t, err)
	assert.True(t, updated.RaisedAmount.Equal(decimal.RequireFromString("199.5")))
}

func TestDonateBeyondTargetIsAccepted(t *testing.T) {
	svc, _ := newCampaignService(nil)
	ctx := context.Background()

	p := validCampaignParams()
	p.TargetAmount = decimal.NewFromInt(100)
	c, err := svc.CreateCampaign(ctx, p)
	require.NoError(t, err)

	updated, err := svc.Donate(ctx, c.ID, decimal.NewFromInt(250), donorAddr)
	require.NoError(t, err)
	assert.True(t, updated.RaisedAmount.Equal(decimal.NewFromInt(250)))
}

func TestDonateValidation(t *testing.T) {
	svc, _ := newCampaignService(nil)
	ctx := context.Background()

	c, err := svc.CreateCampaign(ctx, validCampaignParams())
	require.NoError(t, err)

	_, err = svc.Donate(ctx, c.ID, decimal.Zero, donorAddr)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "amount", ve.Field)

	_, err = svc.Donate(ctx, c.ID, decimal.NewFromInt(-1), donorAddr)
	_, ok = domain.AsValidation(err)
	assert.True(t, ok)

	_, err = svc.Donate(ctx, c.ID, decimal.NewFromInt(10), "")
	ve, ok = domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "donorAddress", ve.Field)

	_, err = svc.Donate(ctx, c.ID, decimal.NewFromInt(10), "0x123")
	ve, ok = domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "donorAddress", ve.Field)
}

func TestDonateToMissingCampaign(t *testing.T) {
	svc, _ := newCampaignService(nil)

	_, err := svc.Donate(context.Background(), 99, decimal.NewFromInt(10), donorAddr)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDonatePublishesEventWithUpdatedTotal(t *testing.T) {
	bus := newRecordingBus()
	svc, _ := newCampaignService(bus)
	ctx := context.Background()

	c, err := svc.CreateCampaign(ctx, validCampaignParams())
	require.NoError(t, err)

	_, err = svc.Donate(ctx, c.ID, decimal.NewFromInt(75), donorAddr)
	require.NoError(t, err)

	payloads := bus.published(domain.ChannelDonations)
	require.Len(t, payloads, 1)

	var evt domain.DonationEvent
	require.NoError(t, json.Unmarshal(payloads[0], &evt))
	assert.Equal(t, domain.EventDonation, evt.Type)
	assert.Equal(t, c.ID, evt.Donation.CampaignID)
	assert.True(t, evt.Campaign.RaisedAmount.Equal(decimal.NewFromInt(75)))
}

func TestListDonationsReturnsHistoryInOrder(t *testing.T) {
	svc, _ := newCampaignService(nil)
	ctx := context.Background()

	c, err := svc.CreateCampaign(ctx, validCampaignParams())
	require.NoError(t, err)

	amounts := []int64{10, 20, 30}
	for _, a := range amounts {
		_, err := svc.Donate(ctx, c.ID, decimal.NewFromInt(a), donorAddr)
		require.NoError(t, err)
	}

	history, err := svc.ListDonations(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, a := range amounts {
		assert.True(t, history[i].Amount.Equal(decimal.NewFromInt(a)))
		assert.Equal(t, c.ID, history[i].CampaignID)
	}
}

func TestListDonationsForMissingCampaign(t *testing.T) {
	svc, _ := newCampaignService(nil)

	_, err := svc.ListDonations(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
