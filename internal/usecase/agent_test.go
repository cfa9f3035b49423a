package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// TestCreateAgent - Agente novo nasce sem leads e com contador zerado
func TestCreateAgent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	agent, err := f.agents.Create(ctx, usecase.CreateAgentInput{Name: "Jane", Email: "jane@x.com", Password: "p"})
	require.NoError(t, err)

	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, []string{}, agent.AssignedLeads)
	assert.Equal(t, 0, agent.PerformanceStats.TotalLeadsHandled)
	assert.Equal(t, entity.RoleAgent, agent.Role)
	assert.Equal(t, "hashed:p", agent.Password)

	t.Run("Duplicate Email", func(t *testing.T) {
		_, err := f.agents.Create(ctx, usecase.CreateAgentInput{Name: "Other", Email: "jane@x.com", Password: "q"})
		assert.True(t, errors.Is(err, usecase.ErrConflict))
	})

	t.Run("Missing Fields", func(t *testing.T) {
		_, err := f.agents.Create(ctx, usecase.CreateAgentInput{Email: "x@x.com"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, usecase.ErrValidation))
		assert.Contains(t, err.Error(), "name (is required)")
		assert.Contains(t, err.Error(), "password (is required)")
	})

	t.Run("Invalid Email", func(t *testing.T) {
		_, err := f.agents.Create(ctx, usecase.CreateAgentInput{Name: "Bad", Email: "not-an-email", Password: "p"})
		assert.True(t, errors.Is(err, usecase.ErrValidation))
	})
}

// TestAssignLead - Cenário S2 + idempotência
func TestAssignLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	agent := f.agent(t, "Jane", "jane@x.com")
	lead := f.lead(t, usecase.CreateLeadInput{Name: "Bob"})

	out, err := f.agents.AssignLead(ctx, agent.ID, usecase.AssignLeadInput{LeadID: lead.ID})
	require.NoError(t, err)
	assert.Equal(t, "Lead assigned successfully", out.Msg)
	assert.Equal(t, agent.ID, out.Lead.AgentID())
	assert.Equal(t, []string{lead.ID}, out.Agent.AssignedLeads)
	assert.Equal(t, 1, out.Agent.PerformanceStats.TotalLeadsHandled)
	f.requireConsistent(t)

	t.Run("Same Agent Again Is A No-op", func(t *testing.T) {
		_, err := f.agents.AssignLead(ctx, agent.ID, usecase.AssignLeadInput{LeadID: lead.ID})
		require.Error(t, err)
		assert.True(t, errors.Is(err, usecase.ErrConflict))
		assert.Equal(t, "Lead already assigned to this agent", err.Error())

		a := f.getAgent(t, agent.ID)
		assert.Equal(t, []string{lead.ID}, a.AssignedLeads)
		assert.Equal(t, 1, a.PerformanceStats.TotalLeadsHandled)
	})

	t.Run("Different Agent Moves The Lead", func(t *testing.T) {
		other := f.agent(t, "Ana", "ana@x.com")

		_, err := f.agents.AssignLead(ctx, other.ID, usecase.AssignLeadInput{LeadID: lead.ID})
		require.NoError(t, err)

		assert.Empty(t, f.getAgent(t, agent.ID).AssignedLeads)
		moved := f.getAgent(t, other.ID)
		assert.Equal(t, []string{lead.ID}, moved.AssignedLeads)
		// reatribuição não conta como lead novo
		assert.Equal(t, 0, moved.PerformanceStats.TotalLeadsHandled)
		assert.Equal(t, 1, f.getAgent(t, agent.ID).PerformanceStats.TotalLeadsHandled)
		f.requireConsistent(t)
	})

	assert.Equal(t, []string{entity.EventLeadAssigned, entity.EventLeadAssigned}, f.events.types())
	assert.Equal(t, 2, f.metrics.assigned)
}

func TestAssignLeadErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := f.agent(t, "Jane", "jane@x.com")
	lead := f.lead(t, usecase.CreateLeadInput{Name: "Bob"})
	missing := "8a7c2f3e-4b1d-4c5e-9f60-1a2b3c4d5e6f"

	tests := []struct {
		name    string
		agentID string
		leadID  string
		want    error
	}{
		{"Missing Lead ID", agent.ID, "", usecase.ErrValidation},
		{"Malformed Agent ID", "abc", lead.ID, usecase.ErrInvalidReference},
		{"Malformed Lead ID", agent.ID, "abc", usecase.ErrInvalidReference},
		{"Unknown Agent", missing, lead.ID, usecase.ErrNotFound},
		{"Unknown Lead", agent.ID, missing, usecase.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.agents.AssignLead(ctx, tt.agentID, usecase.AssignLeadInput{LeadID: tt.leadID})
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	// nada mudou
	assert.Empty(t, f.getAgent(t, agent.ID).AssignedLeads)
	assert.Nil(t, f.getLead(t, lead.ID).AssignedAgent)
}

// TestDeleteAgent - Leads ficam sem dono mas não são apagados
func TestDeleteAgent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	agent := f.agent(t, "Jane", "jane@x.com")
	l1 := f.lead(t, usecase.CreateLeadInput{Name: "A", AssignedAgent: agent.ID})
	l2 := f.lead(t, usecase.CreateLeadInput{Name: "B", AssignedAgent: agent.ID})
	buyer, err := f.buyers.Create(ctx, usecase.CreateBuyerInput{LeadID: l1.ID})
	require.NoError(t, err)

	out, err := f.agents.Delete(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.LeadsUnassigned)

	for _, id := range []string{l1.ID, l2.ID} {
		assert.Nil(t, f.getLead(t, id).AssignedAgent)
	}
	_, err = f.store.Buyers().FindByID(ctx, buyer.ID)
	assert.NoError(t, err)
	_, err = f.store.Agents().FindByID(ctx, agent.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	f.requireConsistent(t)

	t.Run("Already Deleted", func(t *testing.T) {
		_, err := f.agents.Delete(ctx, agent.ID)
		assert.True(t, errors.Is(err, usecase.ErrNotFound))
	})

	assert.Contains(t, f.events.types(), entity.EventAgentDeleted)
}

// TestAssignLeadConcurrentSameAgent - Atribuições simultâneas no mesmo agente não perdem update
func TestAssignLeadConcurrentSameAgent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := f.agent(t, "Jane", "jane@x.com")

	const n = 50
	leadIDs := make([]string, n)
	for i := range leadIDs {
		leadIDs[i] = f.lead(t, usecase.CreateLeadInput{Name: fmt.Sprintf("Lead %d", i)}).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, id := range leadIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.agents.AssignLead(ctx, agent.ID, usecase.AssignLeadInput{LeadID: id})
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	a := f.getAgent(t, agent.ID)
	assert.Len(t, a.AssignedLeads, n)
	assert.ElementsMatch(t, leadIDs, a.AssignedLeads)
	assert.Equal(t, n, a.PerformanceStats.TotalLeadsHandled)
	f.requireConsistent(t)
}

// TestAssignLeadConcurrentSameLead - Vários agentes disputando o mesmo lead
func TestAssignLeadConcurrentSameLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t, usecase.CreateLeadInput{Name: "Bob"})

	const n = 20
	agentIDs := make([]string, n)
	for i := range agentIDs {
		agentIDs[i] = f.agent(t, fmt.Sprintf("Agent %d", i), fmt.Sprintf("agent%d@x.com", i)).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, id := range agentIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.agents.AssignLead(ctx, id, usecase.AssignLeadInput{LeadID: lead.ID})
		}(i, id)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.True(t, errors.Is(err, usecase.ErrConflict), err.Error())
	}
	assert.GreaterOrEqual(t, won, 1)

	owner := f.getLead(t, lead.ID).AgentID()
	require.NotEmpty(t, owner)
	handled := 0
	for _, id := range agentIDs {
		a := f.getAgent(t, id)
		handled += a.PerformanceStats.TotalLeadsHandled
		if id == owner {
			assert.Equal(t, []string{lead.ID}, a.AssignedLeads)
		} else {
			assert.Empty(t, a.AssignedLeads)
		}
	}
	// só a primeira atribuição, saindo de sem dono, conta
	assert.Equal(t, 1, handled)
	f.requireConsistent(t)
}

func TestLeadUpdateAgentPrecondition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := f.agent(t, "Jane", "jane@x.com")
	lead := f.lead(t, usecase.CreateLeadInput{Name: "Bob", AssignedAgent: agent.ID})

	stale := ""
	target := "8a7c2f3e-4b1d-4c5e-9f60-1a2b3c4d5e6f"
	_, err := f.store.Leads().Update(ctx, lead.ID, entity.LeadPatch{AssignedAgent: &target, IfAgent: &stale})
	assert.ErrorIs(t, err, entity.ErrAgentChanged)
	assert.Equal(t, agent.ID, f.getLead(t, lead.ID).AgentID())

	current := agent.ID
	updated, err := f.store.Leads().Update(ctx, lead.ID, entity.LeadPatch{AssignedAgent: &stale, IfAgent: &current})
	require.NoError(t, err)
	assert.Empty(t, updated.AgentID())
}
