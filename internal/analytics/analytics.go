// Package analytics calcula as visões agregadas do CRM. Só lê: toda consulta
// vira um ou mais aggregate.Pipeline sobre a store.
package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/xavierca1/ligue-crm/internal/aggregate"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	unknown     = "Unknown"
	unspecified = "Unspecified"
)

// SizeBuckets são os intervalos de interestedSquareFeet.
var SizeBuckets = aggregate.Buckets{
	Boundaries: []float64{0, 500, 1000, 2000, 5000, 10000},
	Overflow:   "10000+",
	Missing:    unknown,
}

type Service struct {
	Store aggregate.Aggregator
}

func NewService(store aggregate.Aggregator) *Service {
	return &Service{Store: store}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func round2(v float64) float64 { return round(v, 2) }
func round1(v float64) float64 { return round(v, 1) }

func countBy(field string) aggregate.Pipeline {
	return aggregate.Pipeline{
		GroupBy:      field,
		Accumulators: []aggregate.Accumulator{{Name: "count", Op: aggregate.Count}},
	}
}

func (s *Service) run(ctx context.Context, coll aggregate.Collection, p aggregate.Pipeline) ([]aggregate.Row, error) {
	rows, err := s.Store.Aggregate(ctx, coll, p)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll, err)
	}
	return rows, nil
}

// histogram soma as contagens por chave; ausente vira fallback.
func (s *Service) histogram(ctx context.Context, coll aggregate.Collection, field, fallback string) (map[string]int, error) {
	rows, err := s.run(ctx, coll, countBy(field))
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.KeyString(fallback)] += r.Int("count")
	}
	return out, nil
}

type LocationSummary struct {
	City    string `json:"city,omitempty"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message"`
}

type TopLocations struct {
	TopBuyerLocation  LocationSummary `json:"topBuyerLocation"`
	TopSellerLocation LocationSummary `json:"topSellerLocation"`
}

func (s *Service) TopLocations(ctx context.Context) (*TopLocations, error) {
	top := func(coll aggregate.Collection, field string) (*aggregate.Row, error) {
		p := countBy(field)
		p.SortBy = "count"
		p.Descending = true
		p.Limit = 1
		rows, err := s.run(ctx, coll, p)
		if err != nil || len(rows) == 0 {
			return nil, err
		}
		return &rows[0], nil
	}

	out := &TopLocations{}

	buyer, err := top(aggregate.Buyers, "interestedLocation")
	if err != nil {
		return nil, err
	}
	if buyer != nil {
		city := buyer.KeyString(unknown)
		out.TopBuyerLocation = LocationSummary{
			City:    city,
			Count:   buyer.Int("count"),
			Message: fmt.Sprintf("🔥 Most buyers are interested in %s (%d inquiries)", city, buyer.Int("count")),
		}
	} else {
		out.TopBuyerLocation = LocationSummary{Message: "No buyer data available"}
	}

	seller, err := top(aggregate.Sellers, "propertyLocation")
	if err != nil {
		return nil, err
	}
	if seller != nil {
		city := seller.KeyString(unknown)
		out.TopSellerLocation = LocationSummary{
			City:    city,
			Count:   seller.Int("count"),
			Message: fmt.Sprintf("🌟 Most properties are listed in %s (%d listings)", city, seller.Int("count")),
		}
	} else {
		out.TopSellerLocation = LocationSummary{Message: "No seller data available"}
	}

	return out, nil
}

type CityAverage struct {
	City     string  `json:"city"`
	AvgValue float64 `json:"avgValue"`
	Count    int     `json:"count"`
}

// AveragePropertyValues: média de propertyValue por cidade, maior primeiro.
// Valores não numéricos ficam fora da média mas entram no count.
func (s *Service) AveragePropertyValues(ctx context.Context) ([]CityAverage, error) {
	rows, err := s.run(ctx, aggregate.Sellers, aggregate.Pipeline{
		GroupBy: "propertyLocation",
		Accumulators: []aggregate.Accumulator{
			{Name: "avgValue", Op: aggregate.Avg, Field: "propertyValue"},
			{Name: "count", Op: aggregate.Count},
		},
		SortBy:     "avgValue",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}

	out := make([]CityAverage, 0, len(rows))
	for _, r := range rows {
		avg, _ := r.Value("avgValue")
		out = append(out, CityAverage{
			City:     r.KeyString(unknown),
			AvgValue: round2(avg),
			Count:    r.Int("count"),
		})
	}
	return out, nil
}

type LeadsPipeline struct {
	StatusCounts   map[string]int `json:"statusCounts"`
	SourceCounts   map[string]int `json:"sourceCounts"`
	PriorityCounts map[string]int `json:"priorityCounts"`
}

func (s *Service) LeadsPipeline(ctx context.Context) (*LeadsPipeline, error) {
	status, err := s.histogram(ctx, aggregate.Leads, "status", unknown)
	if err != nil {
		return nil, err
	}
	source, err := s.histogram(ctx, aggregate.Leads, "source", unknown)
	if err != nil {
		return nil, err
	}
	priority, err := s.histogram(ctx, aggregate.Leads, "priority", unspecified)
	if err != nil {
		return nil, err
	}
	return &LeadsPipeline{StatusCounts: status, SourceCounts: source, PriorityCounts: priority}, nil
}

// KeyCount é o formato {_id, count} das distribuições.
type KeyCount struct {
	ID    any `json:"_id"`
	Count int `json:"count"`
}

type BuyerInsights struct {
	SizeDistribution []KeyCount `json:"sizeDistribution"`
	BuyersTimeline   []KeyCount `json:"buyersTimeline"`
}

func (s *Service) BuyerInsights(ctx context.Context) (*BuyerInsights, error) {
	sizes, err := s.run(ctx, aggregate.Buyers, aggregate.Pipeline{
		GroupBy:      "interestedSquareFeet",
		Grouping:     aggregate.ByBucket,
		Buckets:      SizeBuckets,
		Accumulators: []aggregate.Accumulator{{Name: "count", Op: aggregate.Count}},
		SortBy:       aggregate.KeyField,
	})
	if err != nil {
		return nil, err
	}

	timeline, err := s.run(ctx, aggregate.Buyers, aggregate.Pipeline{
		GroupBy:      "createdAt",
		Grouping:     aggregate.ByMonth,
		Accumulators: []aggregate.Accumulator{{Name: "count", Op: aggregate.Count}},
		SortBy:       aggregate.KeyField,
	})
	if err != nil {
		return nil, err
	}

	return &BuyerInsights{
		SizeDistribution: keyCounts(sizes),
		BuyersTimeline:   keyCounts(timeline),
	}, nil
}

func keyCounts(rows []aggregate.Row) []KeyCount {
	out := make([]KeyCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, KeyCount{ID: r.Key, Count: r.Int("count")})
	}
	return out
}

type CityBedsBaths struct {
	City         string  `json:"city"`
	AvgBedrooms  float64 `json:"avgBedrooms"`
	AvgBathrooms float64 `json:"avgBathrooms"`
	Count        int     `json:"count"`
}

type SellerInsights struct {
	PropertyTypes map[string]int  `json:"propertyTypes"`
	ListingStatus map[string]int  `json:"listingStatus"`
	AvgBedsBaths  []CityBedsBaths `json:"avgBedsBaths"`
}

func (s *Service) SellerInsights(ctx context.Context) (*SellerInsights, error) {
	types, err := s.histogram(ctx, aggregate.Sellers, "propertyType", unknown)
	if err != nil {
		return nil, err
	}
	status, err := s.histogram(ctx, aggregate.Sellers, "listingStatus", unknown)
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, aggregate.Sellers, aggregate.Pipeline{
		GroupBy: "propertyLocation",
		Accumulators: []aggregate.Accumulator{
			{Name: "avgBedrooms", Op: aggregate.Avg, Field: "bedrooms"},
			{Name: "avgBathrooms", Op: aggregate.Avg, Field: "bathrooms"},
			{Name: "count", Op: aggregate.Count},
		},
		SortBy:     "count",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}

	beds := make([]CityBedsBaths, 0, len(rows))
	for _, r := range rows {
		bedrooms, _ := r.Value("avgBedrooms")
		bathrooms, _ := r.Value("avgBathrooms")
		beds = append(beds, CityBedsBaths{
			City:         r.KeyString(unknown),
			AvgBedrooms:  round1(bedrooms),
			AvgBathrooms: round1(bathrooms),
			Count:        r.Int("count"),
		})
	}

	return &SellerInsights{PropertyTypes: types, ListingStatus: status, AvgBedsBaths: beds}, nil
}

type DemandSupply struct {
	Buyers  int `json:"buyers"`
	Sellers int `json:"sellers"`
}

// DemandVsSupply junta, por cidade, quantos buyers procuram e quantos sellers anunciam.
func (s *Service) DemandVsSupply(ctx context.Context) (map[string]DemandSupply, error) {
	buyers, err := s.histogram(ctx, aggregate.Buyers, "interestedLocation", unknown)
	if err != nil {
		return nil, err
	}
	sellers, err := s.histogram(ctx, aggregate.Sellers, "propertyLocation", unknown)
	if err != nil {
		return nil, err
	}

	out := make(map[string]DemandSupply, len(buyers)+len(sellers))
	for city, n := range buyers {
		out[city] = DemandSupply{Buyers: n}
	}
	for city, n := range sellers {
		ds := out[city]
		ds.Sellers = n
		out[city] = ds
	}
	return out, nil
}

type CityTotal struct {
	City       string  `json:"city"`
	TotalValue float64 `json:"totalValue"`
	Count      int     `json:"count"`
}

type Listing struct {
	ID               string         `json:"_id"`
	PropertyLocation string         `json:"propertyLocation"`
	PropertyValue    entity.Numeric `json:"propertyValue"`
	PropertyType     *string        `json:"propertyType"`
	Bedrooms         entity.Numeric `json:"bedrooms"`
	Bathrooms        entity.Numeric `json:"bathrooms"`
}

type MarketValue struct {
	TotalByCity []CityTotal `json:"totalByCity"`
	TopListings []Listing   `json:"topListings"`
}

var listingFields = []string{"propertyLocation", "propertyValue", "propertyType", "bedrooms", "bathrooms"}

func (s *Service) MarketValue(ctx context.Context) (*MarketValue, error) {
	totals, err := s.run(ctx, aggregate.Sellers, aggregate.Pipeline{
		GroupBy: "propertyLocation",
		Accumulators: []aggregate.Accumulator{
			{Name: "totalValue", Op: aggregate.Sum, Field: "propertyValue"},
			{Name: "count", Op: aggregate.Count},
		},
		SortBy:     "totalValue",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}

	// empate em propertyValue fica na ordem natural da store
	listings, err := s.run(ctx, aggregate.Sellers, aggregate.Pipeline{
		SortBy:     "propertyValue",
		Descending: true,
		Limit:      5,
		Project:    listingFields,
	})
	if err != nil {
		return nil, err
	}

	out := &MarketValue{
		TotalByCity: make([]CityTotal, 0, len(totals)),
		TopListings: make([]Listing, 0, len(listings)),
	}
	for _, r := range totals {
		total, _ := r.Value("totalValue")
		out.TotalByCity = append(out.TotalByCity, CityTotal{
			City:       r.KeyString(unknown),
			TotalValue: round2(total),
			Count:      r.Int("count"),
		})
	}
	for _, r := range listings {
		l := Listing{
			ID:               r.KeyString(""),
			PropertyLocation: unknown,
			PropertyValue:    numericField(r, "propertyValue"),
			Bedrooms:         numericField(r, "bedrooms"),
			Bathrooms:        numericField(r, "bathrooms"),
		}
		if loc, ok := r.Fields["propertyLocation"].(string); ok {
			l.PropertyLocation = loc
		}
		if t, ok := r.Fields["propertyType"].(string); ok {
			l.PropertyType = &t
		}
		out.TopListings = append(out.TopListings, l)
	}
	return out, nil
}

func numericField(r aggregate.Row, name string) entity.Numeric {
	if s, ok := r.Fields[name].(string); ok {
		return entity.Numeric(s)
	}
	return ""
}

type ConversionRate struct {
	TotalLeads     int     `json:"totalLeads"`
	CompletedLeads int     `json:"completedLeads"`
	ConversionRate float64 `json:"conversionRate"`
}

// Rate é closed/total*100 com 2 casas; 0 quando não há leads.
func Rate(closed, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(closed) / float64(total) * 100)
}

func (s *Service) ConversionRate(ctx context.Context) (*ConversionRate, error) {
	rows, err := s.run(ctx, aggregate.Leads, countBy("status"))
	if err != nil {
		return nil, err
	}

	out := &ConversionRate{}
	for _, r := range rows {
		n := r.Int("count")
		out.TotalLeads += n
		if k, ok := r.Key.(string); ok && k == entity.StatusClosed {
			out.CompletedLeads += n
		}
	}
	out.ConversionRate = Rate(out.CompletedLeads, out.TotalLeads)
	return out, nil
}
