package entity

import "time"

const (
	EventLeadAssigned   = "lead.assigned"
	EventLeadUnassigned = "lead.unassigned"
	EventLeadDeleted    = "lead.deleted"
	EventAgentDeleted   = "agent.deleted"
)

// Event é publicado depois de uma mutação que cruza entidades.
type Event struct {
	Type            string    `json:"type"`
	LeadID          string    `json:"lead_id,omitempty"`
	LeadName        string    `json:"lead_name,omitempty"`
	AgentID         string    `json:"agent_id,omitempty"`
	AgentName       string    `json:"agent_name,omitempty"`
	AgentEmail      string    `json:"agent_email,omitempty"`
	PreviousAgentID string    `json:"previous_agent_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
