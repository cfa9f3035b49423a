package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const StatusClosed = "closed"

type BudgetRange struct {
	Min Numeric `json:"min"`
	Max Numeric `json:"max"`
}

type PropertyPreferences struct {
	Bedrooms  Numeric `json:"bedrooms"`
	Bathrooms Numeric `json:"bathrooms"`
	Location  string  `json:"location,omitempty"`
}

type Note struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// SellerSummary é a cópia desnormalizada do Seller embutida no Lead.
// Snapshot do momento da criação; ver Seller.Summary.
type SellerSummary struct {
	ID                 string    `json:"_id"`
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

// Lead é o hub: aponta para um Agent (opcional), Buyers e Sellers.
type Lead struct {
	ID                  string               `json:"_id"`
	Name                string               `json:"name"`
	Email               string               `json:"email"`
	Phone               string               `json:"phone"`
	Source              string               `json:"source"`
	Status              string               `json:"status"`
	LeadType            string               `json:"leadType"`
	Priority            string               `json:"priority"`
	BudgetRange         *BudgetRange         `json:"budgetRange"`
	PropertyPreferences *PropertyPreferences `json:"propertyPreferences"`
	Timeline            string               `json:"timeline"`
	AssignedAgent       *string              `json:"assignedAgent"`
	Buyers              []string             `json:"buyers"`
	Sellers             []SellerSummary      `json:"sellers"`
	Notes               []Note               `json:"notes"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

func NewLead() *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:        uuid.New().String(),
		Buyers:    []string{},
		Sellers:   []SellerSummary{},
		Notes:     []Note{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AgentID devolve o dono atual ou "" quando não atribuído.
func (l *Lead) AgentID() string {
	if l.AssignedAgent == nil {
		return ""
	}
	return *l.AssignedAgent
}

func (l *Lead) HasBuyer(buyerID string) bool {
	for _, id := range l.Buyers {
		if id == buyerID {
			return true
		}
	}
	return false
}

func (l *Lead) HasSeller(sellerID string) bool {
	for _, s := range l.Sellers {
		if s.ID == sellerID {
			return true
		}
	}
	return false
}

func (l *Lead) Clone() *Lead {
	c := *l
	c.AssignedAgent = cloneString(l.AssignedAgent)
	if l.BudgetRange != nil {
		br := *l.BudgetRange
		c.BudgetRange = &br
	}
	if l.PropertyPreferences != nil {
		pp := *l.PropertyPreferences
		c.PropertyPreferences = &pp
	}
	c.Buyers = append([]string{}, l.Buyers...)
	c.Sellers = make([]SellerSummary, len(l.Sellers))
	for i, s := range l.Sellers {
		s.AssignedAgent = cloneString(s.AssignedAgent)
		c.Sellers[i] = s
	}
	c.Notes = append([]Note{}, l.Notes...)
	return &c
}

// LeadPatch é o merge parcial: só campos não-nil mudam. ID, CreatedAt, Buyers
// e Sellers não aparecem aqui de propósito.
type LeadPatch struct {
	Name                *string
	Email               *string
	Phone               *string
	Source              *string
	Status              *string
	LeadType            *string
	Priority            *string
	BudgetRange         *BudgetRange
	PropertyPreferences *PropertyPreferences
	Timeline            *string

	// Clear* zeram o objeto (null no corpo); têm precedência sobre o valor.
	ClearBudgetRange         bool
	ClearPropertyPreferences bool

	// AssignedAgent troca o dono; string vazia desatribui.
	AssignedAgent *string

	// IfAgent condiciona o update ao dono atual ("" = sem dono). Sem match a
	// store devolve ErrAgentChanged e nada muda.
	IfAgent *string
}

// Matches diz se o lead satisfaz a condição IfAgent.
func (p LeadPatch) Matches(l *Lead) bool {
	return p.IfAgent == nil || l.AgentID() == *p.IfAgent
}

func (p LeadPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Source == nil &&
		p.Status == nil && p.LeadType == nil && p.Priority == nil && p.BudgetRange == nil &&
		p.PropertyPreferences == nil && p.Timeline == nil && p.AssignedAgent == nil &&
		!p.ClearBudgetRange && !p.ClearPropertyPreferences
}

// Apply faz o merge no lead em memória.
func (p LeadPatch) Apply(l *Lead) {
	setString(&l.Name, p.Name)
	setString(&l.Email, p.Email)
	setString(&l.Phone, p.Phone)
	setString(&l.Source, p.Source)
	setString(&l.Status, p.Status)
	setString(&l.LeadType, p.LeadType)
	setString(&l.Priority, p.Priority)
	setString(&l.Timeline, p.Timeline)
	switch {
	case p.ClearBudgetRange:
		l.BudgetRange = nil
	case p.BudgetRange != nil:
		br := *p.BudgetRange
		l.BudgetRange = &br
	}
	switch {
	case p.ClearPropertyPreferences:
		l.PropertyPreferences = nil
	case p.PropertyPreferences != nil:
		pp := *p.PropertyPreferences
		l.PropertyPreferences = &pp
	}
	if p.AssignedAgent != nil {
		if *p.AssignedAgent == "" {
			l.AssignedAgent = nil
		} else {
			id := *p.AssignedAgent
			l.AssignedAgent = &id
		}
	}
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, l *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context) ([]*Lead, error)
	Update(ctx context.Context, id string, patch LeadPatch) (*Lead, error)
	Delete(ctx context.Context, id string) error

	// ClearAgent desatribui em massa todos os leads do agente.
	ClearAgent(ctx context.Context, agentID string) (int64, error)

	AddBuyer(ctx context.Context, leadID, buyerID string) error
	RemoveBuyer(ctx context.Context, leadID, buyerID string) error
	AddSeller(ctx context.Context, leadID string, summary SellerSummary) error
	ReplaceSeller(ctx context.Context, leadID string, summary SellerSummary) error
	RemoveSeller(ctx context.Context, leadID, sellerID string) error
	AddNote(ctx context.Context, leadID string, note Note) error
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
