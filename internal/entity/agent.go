package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const RoleAgent = "agent"

type PerformanceStats struct {
	TotalLeadsHandled int      `json:"totalLeadsHandled"`
	ClosedDeals       int      `json:"closedDeals"`
	AvgResponseTime   *float64 `json:"avgResponseTime"`
}

// Agent é o corretor. AssignedLeads é o reflexo de Lead.AssignedAgent e só
// muda via AddLead/RemoveLead do repositório.
type Agent struct {
	ID               string           `json:"_id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Password         string           `json:"-"` // hash bcrypt
	Role             string           `json:"role"`
	PhoneNumber      string           `json:"phoneNumber,omitempty"`
	AssignedLeads    []string         `json:"assignedLeads"`
	PerformanceStats PerformanceStats `json:"performanceStats"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func NewAgent(name, email, passwordHash, phoneNumber string) *Agent {
	now := time.Now().UTC()
	return &Agent{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         email,
		Password:      passwordHash,
		Role:          RoleAgent,
		PhoneNumber:   phoneNumber,
		AssignedLeads: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// HasLead diz se leadID está em assignedLeads.
func (a *Agent) HasLead(leadID string) bool {
	for _, id := range a.AssignedLeads {
		if id == leadID {
			return true
		}
	}
	return false
}

func (a *Agent) Clone() *Agent {
	c := *a
	c.AssignedLeads = append([]string{}, a.AssignedLeads...)
	if a.PerformanceStats.AvgResponseTime != nil {
		v := *a.PerformanceStats.AvgResponseTime
		c.PerformanceStats.AvgResponseTime = &v
	}
	return &c
}

type AgentRepositoryInterface interface {
	Create(ctx context.Context, a *Agent) error
	FindByID(ctx context.Context, id string) (*Agent, error)
	FindByEmail(ctx context.Context, email string) (*Agent, error)
	List(ctx context.Context) ([]*Agent, error)
	Delete(ctx context.Context, id string) error

	// AddLead é um set-union atômico; added=false quando o lead já estava no conjunto.
	AddLead(ctx context.Context, agentID, leadID string) (added bool, err error)
	RemoveLead(ctx context.Context, agentID, leadID string) error
	IncrementLeadsHandled(ctx context.Context, agentID string) error
}
