package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const ListingAvailable = "available"

type Seller struct {
	ID                 string    `json:"_id"`
	LeadID             string    `json:"leadId"`
	PropertyLocation   string    `json:"propertyLocation"`
	PropertySquareFeet Numeric   `json:"propertySquareFeet"`
	PropertyValue      Numeric   `json:"propertyValue"`
	PropertyType       string    `json:"propertyType"`
	Bedrooms           Numeric   `json:"bedrooms"`
	Bathrooms          Numeric   `json:"bathrooms"`
	ListingStatus      string    `json:"listingStatus"`
	AssignedAgent      *string   `json:"assignedAgent"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func NewSeller(leadID string) *Seller {
	now := time.Now().UTC()
	return &Seller{
		ID:            uuid.New().String(),
		LeadID:        leadID,
		ListingStatus: ListingAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Summary monta a cópia que vai embutida em Lead.Sellers.
func (s *Seller) Summary() SellerSummary {
	return SellerSummary{
		ID:                 s.ID,
		PropertyLocation:   s.PropertyLocation,
		PropertySquareFeet: s.PropertySquareFeet,
		PropertyValue:      s.PropertyValue,
		PropertyType:       s.PropertyType,
		Bedrooms:           s.Bedrooms,
		Bathrooms:          s.Bathrooms,
		ListingStatus:      s.ListingStatus,
		AssignedAgent:      cloneString(s.AssignedAgent),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func (s *Seller) Clone() *Seller {
	c := *s
	c.AssignedAgent = cloneString(s.AssignedAgent)
	return &c
}

// SellerPatch: LeadID e CreatedAt são imutáveis e ficam de fora.
type SellerPatch struct {
	PropertyLocation   *string
	PropertySquareFeet *Numeric
	PropertyValue      *Numeric
	PropertyType       *string
	Bedrooms           *Numeric
	Bathrooms          *Numeric
	ListingStatus      *string

	// AssignedAgent: string vazia limpa o campo.
	AssignedAgent *string
}

func (p SellerPatch) IsEmpty() bool {
	return p.PropertyLocation == nil && p.PropertySquareFeet == nil && p.PropertyValue == nil &&
		p.PropertyType == nil && p.Bedrooms == nil && p.Bathrooms == nil &&
		p.ListingStatus == nil && p.AssignedAgent == nil
}

func (p SellerPatch) Apply(s *Seller) {
	setString(&s.PropertyLocation, p.PropertyLocation)
	setNumeric(&s.PropertySquareFeet, p.PropertySquareFeet)
	setNumeric(&s.PropertyValue, p.PropertyValue)
	setString(&s.PropertyType, p.PropertyType)
	setNumeric(&s.Bedrooms, p.Bedrooms)
	setNumeric(&s.Bathrooms, p.Bathrooms)
	setString(&s.ListingStatus, p.ListingStatus)
	if p.AssignedAgent != nil {
		if *p.AssignedAgent == "" {
			s.AssignedAgent = nil
		} else {
			id := *p.AssignedAgent
			s.AssignedAgent = &id
		}
	}
}

type SellerRepositoryInterface interface {
	Create(ctx context.Context, s *Seller) error
	FindByID(ctx context.Context, id string) (*Seller, error)
	List(ctx context.Context) ([]*Seller, error)
	Update(ctx context.Context, id string, patch SellerPatch) (*Seller, error)
	Delete(ctx context.Context, id string) error
	DeleteByLeadID(ctx context.Context, leadID string) (int64, error)
}

func setNumeric(dst *Numeric, src *Numeric) {
	if src != nil {
		*dst = *src
	}
}
