package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Buyer struct {
	ID                   string    `json:"_id"`
	LeadID               string    `json:"leadId"`
	InterestedLocation   string    `json:"interestedLocation"`
	InterestedSquareFeet Numeric   `json:"interestedSquareFeet"`
	AssignedAgent        *string   `json:"assignedAgent"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func NewBuyer(leadID string) *Buyer {
	now := time.Now().UTC()
	return &Buyer{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *Buyer) Clone() *Buyer {
	c := *b
	c.AssignedAgent = cloneString(b.AssignedAgent)
	return &c
}

type BuyerRepositoryInterface interface {
	Create(ctx context.Context, b *Buyer) error
	FindByID(ctx context.Context, id string) (*Buyer, error)
	List(ctx context.Context) ([]*Buyer, error)
	Delete(ctx context.Context, id string) error
	DeleteByLeadID(ctx context.Context, leadID string) (int64, error)
}
