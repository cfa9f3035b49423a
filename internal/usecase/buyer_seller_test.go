package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func TestCreateBuyer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t, usecase.CreateLeadInput{Name: "Bob"})

	buyer, err := f.buyers.Create(ctx, usecase.CreateBuyerInput{
		LeadID:               lead.ID,
		InterestedLocation:   "Austin",
		InterestedSquareFeet: "1200",
	})
	require.NoError(t, err)
	assert.Equal(t, lead.ID, buyer.LeadID)
	assert.Equal(t, []string{buyer.ID}, f.getLead(t, lead.ID).Buyers)

	tests := []struct {
		name  string
		input usecase.CreateBuyerInput
		want  error
	}{
		{"Missing Lead", usecase.CreateBuyerInput{}, usecase.ErrValidation},
		{"Malformed Lead", usecase.CreateBuyerInput{LeadID: "xyz"}, usecase.ErrInvalidReference},
		{"Unknown Lead", usecase.CreateBuyerInput{LeadID: "8a7c2f3e-4b1d-4c5e-9f60-1a2b3c4d5e6f"}, usecase.ErrNotFound},
		{"Malformed Agent", usecase.CreateBuyerInput{LeadID: lead.ID, AssignedAgent: "1"}, usecase.ErrInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.buyers.Create(ctx, tt.input)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	buyers, err := f.buyers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, buyers, 1)
}

func TestDeleteBuyer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t, usecase.CreateLeadInput{Name: "Bob"})
	b1, err := f.buyers.Create(ctx, usecase.CreateBuyerInput{LeadID: lead.ID})
	require.NoError(t, err)
	b2, err := f.buyers.Create(ctx, usecase.CreateBuyerInput{LeadID: lead.ID})
	require.NoError(t, err)

	require.NoError(t, f.buyers.Delete(ctx, b1.ID))
	assert.Equal(t, []string{b2.ID}, f.getLead(t, lead.ID).Buyers)

	assert.True(t, errors.Is(f.buyers.Delete(ctx, b1.ID), usecase.ErrNotFound))
}

// TestCreateSellerEmbedsSummary - o lead recebe a cópia do seller
func TestCreateSellerEmbedsSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t, usecase.CreateLeadInput{Name: "Bob"})

	seller, err := f.sellers.Create(ctx, usecase.CreateSellerInput{
		LeadID:           lead.ID,
		PropertyLocation: "Austin",
		PropertyValue:    "450000",
		Bedrooms:         "3",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ListingAvailable, seller.ListingStatus)

	embedded := f.getLead(t, lead.ID).Sellers
	require.Len(t, embedded, 1)
	assert.Equal(t, seller.ID, embedded[0].ID)
	assert.Equal(t, "Austin", embedded[0].PropertyLocation)
	assert.Equal(t, entity.Numeric("450000"), embedded[0].PropertyValue)

	t.Run("Explicit Status", func(t *testing.T) {
		s, err := f.sellers.Create(ctx, usecase.CreateSellerInput{LeadID: lead.ID, ListingStatus: "pending"})
		require.NoError(t, err)
		assert.Equal(t, "pending", s.ListingStatus)
	})

	t.Run("Unknown Lead", func(t *testing.T) {
		_, err := f.sellers.Create(ctx, usecase.CreateSellerInput{LeadID: "8a7c2f3e-4b1d-4c5e-9f60-1a2b3c4d5e6f"})
		assert.True(t, errors.Is(err, usecase.ErrNotFound))
	})
}

func TestUpdateSeller(t *testing.T) {
	for _, syncSummaries := range []bool{false, true} {
		name := "Snapshot Kept"
		if syncSummaries {
			name = "Summary Synced"
		}
		t.Run(name, func(t *testing.T) {
			f := newFixtureWithSync(t, syncSummaries)
			ctx := context.Background()
			lead := f.lead(t, usecase.CreateLeadInput{Name: "Bob"})
			seller, err := f.sellers.Create(ctx, usecase.CreateSellerInput{LeadID: lead.ID, PropertyValue: "100"})
			require.NoError(t, err)

			updated, err := f.sellers.Update(ctx, seller.ID, usecase.UpdateSellerInput{
				PropertyValue: usecase.Some(entity.Numeric("200")),
				ListingStatus: usecase.Some("sold"),
			})
			require.NoError(t, err)
			assert.Equal(t, entity.Numeric("200"), updated.PropertyValue)
			assert.Equal(t, "sold", updated.ListingStatus)
			assert.Equal(t, lead.ID, updated.LeadID)
			assert.Equal(t, seller.CreatedAt, updated.CreatedAt)

			embedded := f.getLead(t, lead.ID).Sellers[0]
			if syncSummaries {
				assert.Equal(t, entity.Numeric("200"), embedded.PropertyValue)
			} else {
				assert.Equal(t, entity.Numeric("100"), embedded.PropertyValue)
			}
		})
	}

	t.Run("Unknown Seller", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sellers.Update(context.Background(), "8a7c2f3e-4b1d-4c5e-9f60-1a2b3c4d5e6f", usecase.UpdateSellerInput{})
		assert.True(t, errors.Is(err, usecase.ErrNotFound))
	})

	t.Run("Assigned Agent Cleared", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		agent := f.agent(t, "Jane", "jane@x.com")
		lead := f.lead(t, usecase.CreateLeadInput{Name: "Bob"})
		seller, err := f.sellers.Create(ctx, usecase.CreateSellerInput{LeadID: lead.ID, AssignedAgent: agent.ID})
		require.NoError(t, err)
		require.NotNil(t, seller.AssignedAgent)

		updated, err := f.sellers.Update(ctx, seller.ID, usecase.UpdateSellerInput{AssignedAgent: usecase.Null[string]()})
		require.NoError(t, err)
		assert.Nil(t, updated.AssignedAgent)
	})
}

func TestDeleteSeller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t, usecase.CreateLeadInput{Name: "Bob"})
	s1, err := f.sellers.Create(ctx, usecase.CreateSellerInput{LeadID: lead.ID})
	require.NoError(t, err)
	s2, err := f.sellers.Create(ctx, usecase.CreateSellerInput{LeadID: lead.ID})
	require.NoError(t, err)

	require.NoError(t, f.sellers.Delete(ctx, s1.ID))

	embedded := f.getLead(t, lead.ID).Sellers
	require.Len(t, embedded, 1)
	assert.Equal(t, s2.ID, embedded[0].ID)
	assert.True(t, errors.Is(f.sellers.Delete(ctx, s1.ID), usecase.ErrNotFound))
	assert.True(t, errors.Is(f.sellers.Delete(ctx, "x"), usecase.ErrInvalidReference))
}
