package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/analytics"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 10, 12, 0, 0, 0, time.UTC)
}

// seed monta um conjunto pequeno com valores ausentes e não numéricos.
func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	for _, status := range []string{"closed", "new", "closed", ""} {
		l := entity.NewLead()
		l.Status = status
		l.Source = "website"
		if status == "new" {
			l.Priority = "high"
		}
		require.NoError(t, store.Leads().Create(ctx, l))
	}

	buyers := []struct {
		location string
		sqft     entity.Numeric
		created  time.Time
	}{
		{"Austin", "1200", month(2024, time.March)},
		{"Austin", "450", month(2024, time.January)},
		{"Dallas", "abc", month(2024, time.March)},
		{"", "", month(2024, time.February)},
		{"Austin", "15000", month(2024, time.January)},
	}
	for _, b := range buyers {
		buyer := entity.NewBuyer(entity.NewLead().ID)
		buyer.InterestedLocation = b.location
		buyer.InterestedSquareFeet = b.sqft
		buyer.CreatedAt = b.created
		require.NoError(t, store.Buyers().Create(ctx, buyer))
	}

	sellers := []struct {
		location, kind string
		value          entity.Numeric
		beds, baths    entity.Numeric
	}{
		{"Austin", "house", "450000", "3", "2"},
		{"Dallas", "condo", "300000", "2", "1"},
		{"Dallas", "", "abc", "3", "2"},
		{"", "house", "100000", "", ""},
	}
	for _, s := range sellers {
		seller := entity.NewSeller(entity.NewLead().ID)
		seller.PropertyLocation = s.location
		seller.PropertyType = s.kind
		seller.PropertyValue = s.value
		seller.Bedrooms = s.beds
		seller.Bathrooms = s.baths
		require.NoError(t, store.Sellers().Create(ctx, seller))
	}
	return store
}

func TestTopLocations(t *testing.T) {
	svc := analytics.NewService(seed(t))

	out, err := svc.TopLocations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Austin", out.TopBuyerLocation.City)
	assert.Equal(t, 3, out.TopBuyerLocation.Count)
	assert.Equal(t, "🔥 Most buyers are interested in Austin (3 inquiries)", out.TopBuyerLocation.Message)
	assert.Equal(t, "Dallas", out.TopSellerLocation.City)
	assert.Equal(t, "🌟 Most properties are listed in Dallas (2 listings)", out.TopSellerLocation.Message)

	t.Run("Empty Store", func(t *testing.T) {
		out, err := analytics.NewService(memory.NewStore()).TopLocations(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "No buyer data available", out.TopBuyerLocation.Message)
		assert.Equal(t, "No seller data available", out.TopSellerLocation.Message)
		assert.Empty(t, out.TopBuyerLocation.City)
	})
}

func TestAveragePropertyValues(t *testing.T) {
	svc := analytics.NewService(seed(t))

	out, err := svc.AveragePropertyValues(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []analytics.CityAverage{
		{City: "Austin", AvgValue: 450000, Count: 1},
		{City: "Dallas", AvgValue: 300000, Count: 2},
		{City: "Unknown", AvgValue: 100000, Count: 1},
	}, out)
}

func TestLeadsPipelineAndConversion(t *testing.T) {
	svc := analytics.NewService(seed(t))
	ctx := context.Background()

	pipeline, err := svc.LeadsPipeline(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"closed": 2, "new": 1, "Unknown": 1}, pipeline.StatusCounts)
	assert.Equal(t, map[string]int{"website": 4}, pipeline.SourceCounts)
	assert.Equal(t, map[string]int{"high": 1, "Unspecified": 3}, pipeline.PriorityCounts)

	rate, err := svc.ConversionRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, &analytics.ConversionRate{TotalLeads: 4, CompletedLeads: 2, ConversionRate: 50}, rate)
}

func TestRate(t *testing.T) {
	tests := []struct {
		closed, total int
		want          float64
	}{
		{0, 0, 0},
		{1, 4, 25},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, analytics.Rate(tt.closed, tt.total), "%d/%d", tt.closed, tt.total)
	}
}

func TestBuyerInsights(t *testing.T) {
	svc := analytics.NewService(seed(t))

	out, err := svc.BuyerInsights(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []analytics.KeyCount{
		{ID: 0.0, Count: 1},
		{ID: 1000.0, Count: 1},
		{ID: "10000+", Count: 1},
		{ID: "Unknown", Count: 2},
	}, out.SizeDistribution)
	assert.Equal(t, []analytics.KeyCount{
		{ID: "2024-01", Count: 2},
		{ID: "2024-02", Count: 1},
		{ID: "2024-03", Count: 2},
	}, out.BuyersTimeline)
}

func TestSellerInsights(t *testing.T) {
	svc := analytics.NewService(seed(t))

	out, err := svc.SellerInsights(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"house": 2, "condo": 1, "Unknown": 1}, out.PropertyTypes)
	assert.Equal(t, map[string]int{"available": 4}, out.ListingStatus)
	assert.Equal(t, []analytics.CityBedsBaths{
		{City: "Dallas", AvgBedrooms: 2.5, AvgBathrooms: 1.5, Count: 2},
		{City: "Austin", AvgBedrooms: 3, AvgBathrooms: 2, Count: 1},
		{City: "Unknown", AvgBedrooms: 0, AvgBathrooms: 0, Count: 1},
	}, out.AvgBedsBaths)
}

func TestDemandVsSupply(t *testing.T) {
	svc := analytics.NewService(seed(t))

	out, err := svc.DemandVsSupply(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]analytics.DemandSupply{
		"Austin":  {Buyers: 3, Sellers: 1},
		"Dallas":  {Buyers: 1, Sellers: 2},
		"Unknown": {Buyers: 1, Sellers: 1},
	}, out)
}

func TestMarketValue(t *testing.T) {
	svc := analytics.NewService(seed(t))

	out, err := svc.MarketValue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []analytics.CityTotal{
		{City: "Austin", TotalValue: 450000, Count: 1},
		{City: "Dallas", TotalValue: 300000, Count: 2},
		{City: "Unknown", TotalValue: 100000, Count: 1},
	}, out.TotalByCity)

	require.Len(t, out.TopListings, 4)
	values := make([]entity.Numeric, len(out.TopListings))
	for i, l := range out.TopListings {
		values[i] = l.PropertyValue
	}
	assert.Equal(t, []entity.Numeric{"450000", "300000", "100000", "abc"}, values)
	assert.Equal(t, "Unknown", out.TopListings[2].PropertyLocation)
	require.NotNil(t, out.TopListings[0].PropertyType)
	assert.Equal(t, "house", *out.TopListings[0].PropertyType)
	assert.Nil(t, out.TopListings[3].PropertyType)
	assert.NotEmpty(t, out.TopListings[0].ID)
}

// TestSingleSellerAverage - um seller em Austin com 450000
func TestSingleSellerAverage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := entity.NewSeller(entity.NewLead().ID)
	seller.PropertyLocation = "Austin"
	seller.PropertyValue = "450000"
	require.NoError(t, store.Sellers().Create(ctx, seller))

	out, err := analytics.NewService(store).AveragePropertyValues(ctx)
	require.NoError(t, err)
	assert.Equal(t, []analytics.CityAverage{{City: "Austin", AvgValue: 450000, Count: 1}}, out)
}
