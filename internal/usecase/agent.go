package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AgentUseCase struct {
	Agents entity.AgentRepositoryInterface
	Leads  entity.LeadRepositoryInterface
	Hasher PasswordHasher
	*Notifier
}

func NewAgentUseCase(
	agents entity.AgentRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	hasher PasswordHasher,
	notifier *Notifier,
) *AgentUseCase {
	if notifier == nil {
		notifier = NewNotifier(nil, nil, nil)
	}
	return &AgentUseCase{Agents: agents, Leads: leads, Hasher: hasher, Notifier: notifier}
}

func (uc *AgentUseCase) Create(ctx context.Context, input CreateAgentInput) (*entity.Agent, error) {
	if errs := ValidateCreateAgentInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	hash, err := uc.Hasher.Hash(input.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: "falha ao gerar hash da senha", Err: err}
	}

	agent := entity.NewAgent(input.Name, input.Email, hash, input.PhoneNumber)
	if err := uc.Agents.Create(ctx, agent); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, conflict("Agent with this email already exists")
		}
		return nil, storeError("falha ao criar agente", err)
	}

	uc.Log.Info("agente criado", "agent_id", agent.ID)
	return agent, nil
}

func (uc *AgentUseCase) List(ctx context.Context) ([]*entity.Agent, error) {
	agents, err := uc.Agents.List(ctx)
	if err != nil {
		return nil, storeError("falha ao listar agentes", err)
	}
	return agents, nil
}

// Delete desatribui todos os leads do agente antes de apagá-lo. Os leads
// (e seus buyers/sellers) continuam existindo.
func (uc *AgentUseCase) Delete(ctx context.Context, agentID string) (*DeleteAgentOutput, error) {
	if !isValidID(agentID) {
		return nil, invalidReference("Invalid agent ID")
	}
	agent, err := uc.Agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, lookupError(err, "Agent not found")
	}

	cleared, err := uc.Leads.ClearAgent(ctx, agentID)
	if err != nil {
		return nil, storeError("falha ao desatribuir leads", err)
	}
	if err := uc.Agents.Delete(ctx, agentID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("Agent not found")
		}
		return nil, storeError("falha ao apagar agente", err)
	}

	uc.Log.Info("agente apagado", "agent_id", agentID, "leads_unassigned", cleared)
	uc.publish(ctx, entity.Event{
		Type:       entity.EventAgentDeleted,
		AgentID:    agent.ID,
		AgentName:  agent.Name,
		AgentEmail: agent.Email,
	})

	return &DeleteAgentOutput{Msg: "Agent deleted successfully", LeadsUnassigned: cleared}, nil
}

// AssignLead atribui o lead ao agente. Se o lead já era de outro agente, ele
// sai do conjunto do anterior na mesma operação.
func (uc *AgentUseCase) AssignLead(ctx context.Context, agentID string, input AssignLeadInput) (*AssignLeadOutput, error) {
	if input.LeadID == "" {
		return nil, validationFailed([]ValidationError{{"leadId", "is required"}})
	}
	if !isValidID(agentID) || !isValidID(input.LeadID) {
		return nil, invalidReference("Invalid ID format")
	}

	agent, err := uc.Agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, lookupError(err, "Agent not found")
	}
	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, lookupError(err, "Lead not found")
	}

	previous := lead.AgentID()
	if previous == agentID {
		// sem mutação no lead; só garante o reflexo no agente
		if !agent.HasLead(lead.ID) {
			if _, err := uc.Agents.AddLead(ctx, agentID, lead.ID); err != nil {
				uc.Log.Warn("falha ao reparar assignedLeads", "agent_id", agentID, "lead_id", lead.ID, "error", err)
			}
		}
		return nil, conflict("Lead already assigned to this agent")
	}

	if err := assignLead(ctx, uc.Agents, uc.Leads, uc.Notifier, lead.ID, agentID, previous, previous == "", entity.LeadPatch{}); err != nil {
		return nil, err
	}

	updatedLead, err := uc.Leads.FindByID(ctx, lead.ID)
	if err != nil {
		return nil, lookupError(err, "Lead not found")
	}
	updatedAgent, err := uc.Agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, lookupError(err, "Agent not found")
	}

	uc.Metrics.LeadAssigned()
	uc.Log.Info("lead atribuído", "lead_id", lead.ID, "agent_id", agentID, "previous_agent_id", previous)
	uc.publish(ctx, assignedEvent(updatedLead, updatedAgent, previous))

	return &AssignLeadOutput{Msg: "Lead assigned successfully", Lead: updatedLead, Agent: updatedAgent}, nil
}

// assignLead troca o dono de leadID de previous para agentID, aplicando junto
// os campos de patch. Usado por AssignLead, pela criação e pelo update de lead.
func assignLead(
	ctx context.Context,
	agents entity.AgentRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	n *Notifier,
	leadID, agentID, previous string,
	increment bool,
	patch entity.LeadPatch,
) error {
	patch.AssignedAgent = &agentID
	patch.IfAgent = &previous
	tx := NewTransaction(n.Log)

	var added bool
	tx.AddStep("agent.add_lead",
		func(ctx context.Context) error {
			var err error
			added, err = agents.AddLead(ctx, agentID, leadID)
			if errors.Is(err, entity.ErrNotFound) {
				return notFound("Agent not found")
			}
			return err
		},
		func(ctx context.Context) error {
			if !added {
				return nil
			}
			return agents.RemoveLead(ctx, agentID, leadID)
		},
	)

	tx.AddStep("lead.set_agent",
		func(ctx context.Context) error {
			_, err := leads.Update(ctx, leadID, patch)
			switch {
			case errors.Is(err, entity.ErrNotFound):
				return notFound("Lead not found")
			case errors.Is(err, entity.ErrAgentChanged):
				return errAgentChanged
			}
			return err
		},
		func(ctx context.Context) error {
			_, err := leads.Update(ctx, leadID, entity.LeadPatch{AssignedAgent: &previous})
			return err
		},
	)

	if previous != "" {
		tx.AddStep("agent.pull_previous", func(ctx context.Context) error {
			err := agents.RemoveLead(ctx, previous, leadID)
			if errors.Is(err, entity.ErrNotFound) {
				n.Log.Warn("agente anterior não existe mais", "agent_id", previous, "lead_id", leadID)
				return nil
			}
			return err
		}, nil)
	}

	if increment {
		tx.AddStep("agent.increment_handled", func(ctx context.Context) error {
			err := agents.IncrementLeadsHandled(ctx, agentID)
			if errors.Is(err, entity.ErrNotFound) {
				return notFound("Agent not found")
			}
			return err
		}, nil)
	}

	if err := tx.Execute(ctx); err != nil {
		if IsDomainError(err) {
			return err
		}
		return storeError("falha ao atribuir lead", err)
	}
	return nil
}
