package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadUseCase struct {
	Agents  entity.AgentRepositoryInterface
	Leads   entity.LeadRepositoryInterface
	Buyers  entity.BuyerRepositoryInterface
	Sellers entity.SellerRepositoryInterface
	*Notifier
}

func NewLeadUseCase(
	agents entity.AgentRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	buyers entity.BuyerRepositoryInterface,
	sellers entity.SellerRepositoryInterface,
	notifier *Notifier,
) *LeadUseCase {
	if notifier == nil {
		notifier = NewNotifier(nil, nil, nil)
	}
	return &LeadUseCase{Agents: agents, Leads: leads, Buyers: buyers, Sellers: sellers, Notifier: notifier}
}

func (uc *LeadUseCase) Create(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if err := checkID(input.AssignedAgent, "Invalid assignedAgent ID"); err != nil {
		return nil, err
	}

	var agent *entity.Agent
	if input.AssignedAgent != "" {
		a, err := uc.Agents.FindByID(ctx, input.AssignedAgent)
		if err != nil {
			return nil, lookupError(err, "Agent not found")
		}
		agent = a
	}

	lead := entity.NewLead()
	lead.Name = input.Name
	lead.Email = input.Email
	lead.Phone = input.Phone
	lead.Source = input.Source
	lead.Status = input.Status
	lead.LeadType = input.LeadType
	lead.Priority = input.Priority
	lead.BudgetRange = input.BudgetRange
	lead.PropertyPreferences = input.PropertyPreferences
	lead.Timeline = input.Timeline

	// o lead nasce sem dono; a atribuição passa pelo mesmo caminho do assign
	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, storeError("falha ao criar lead", err)
	}
	uc.Log.Info("lead criado", "lead_id", lead.ID)

	if agent == nil {
		return lead, nil
	}

	if err := assignLead(ctx, uc.Agents, uc.Leads, uc.Notifier, lead.ID, agent.ID, "", true, entity.LeadPatch{}); err != nil {
		if delErr := uc.Leads.Delete(ctx, lead.ID); delErr != nil {
			uc.Log.Warn("⚠️ falha ao desfazer criação do lead", "lead_id", lead.ID, "error", delErr)
		}
		return nil, err
	}

	created, err := uc.Leads.FindByID(ctx, lead.ID)
	if err != nil {
		return nil, lookupError(err, "Lead not found")
	}
	uc.Metrics.LeadAssigned()
	uc.publish(ctx, assignedEvent(created, agent, ""))
	return created, nil
}

func (uc *LeadUseCase) List(ctx context.Context) ([]*entity.Lead, error) {
	leads, err := uc.Leads.List(ctx)
	if err != nil {
		return nil, storeError("falha ao listar leads", err)
	}
	return leads, nil
}

// Update faz o merge parcial. assignedAgent no corpo troca o dono: sai do
// conjunto do anterior e entra no do novo. O contador só sobe quando o lead
// estava sem dono.
func (uc *LeadUseCase) Update(ctx context.Context, leadID string, input UpdateLeadInput) (*entity.Lead, error) {
	if !isValidID(leadID) {
		return nil, invalidReference("Invalid lead ID")
	}
	if errs := ValidateUpdateLeadInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	existing, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, lookupError(err, "Lead not found")
	}

	patch := input.scalarPatch()
	previous := existing.AgentID()

	if !input.AssignedAgent.Set {
		return uc.applyPatch(ctx, leadID, patch)
	}

	target := input.AssignedAgent.Value
	if err := checkID(target, "Invalid assignedAgent ID"); err != nil {
		return nil, err
	}

	switch {
	case target == "":
		unassign := patchWithAgent(patch, "")
		unassign.IfAgent = &previous
		updated, err := uc.applyPatch(ctx, leadID, unassign)
		if err != nil {
			return nil, err
		}
		if previous != "" {
			uc.pullFromAgent(ctx, previous, leadID)
			uc.Log.Info("lead desatribuído", "lead_id", leadID, "agent_id", previous)
			uc.publish(ctx, entity.Event{
				Type:            entity.EventLeadUnassigned,
				LeadID:          leadID,
				LeadName:        updated.Name,
				PreviousAgentID: previous,
			})
		}
		return updated, nil

	case target == previous:
		// mesmo dono: só garante o reflexo
		if _, err := uc.Agents.AddLead(ctx, target, leadID); err != nil && !errors.Is(err, entity.ErrNotFound) {
			return nil, storeError("falha ao atualizar agente", err)
		}
		return uc.applyPatch(ctx, leadID, patch)
	}

	agent, err := uc.Agents.FindByID(ctx, target)
	if err != nil {
		return nil, lookupError(err, "Agent not found")
	}
	if err := assignLead(ctx, uc.Agents, uc.Leads, uc.Notifier, leadID, target, previous, previous == "", patch); err != nil {
		return nil, err
	}

	updated, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, lookupError(err, "Lead not found")
	}
	uc.Metrics.LeadAssigned()
	uc.Log.Info("lead reatribuído", "lead_id", leadID, "agent_id", target, "previous_agent_id", previous)
	uc.publish(ctx, assignedEvent(updated, agent, previous))
	return updated, nil
}

func patchWithAgent(p entity.LeadPatch, agentID string) entity.LeadPatch {
	p.AssignedAgent = &agentID
	return p
}

func (uc *LeadUseCase) applyPatch(ctx context.Context, leadID string, patch entity.LeadPatch) (*entity.Lead, error) {
	updated, err := uc.Leads.Update(ctx, leadID, patch)
	if errors.Is(err, entity.ErrAgentChanged) {
		return nil, errAgentChanged
	}
	if err != nil {
		return nil, lookupError(err, "Lead not found")
	}
	return updated, nil
}

// pullFromAgent é best-effort: agente já apagado não é erro.
func (uc *LeadUseCase) pullFromAgent(ctx context.Context, agentID, leadID string) {
	if err := uc.Agents.RemoveLead(ctx, agentID, leadID); err != nil {
		uc.Log.Warn("falha ao remover lead do agente", "agent_id", agentID, "lead_id", leadID, "error", err)
	}
}

// Delete tira o lead do agente, apaga buyers e sellers dele e por fim o lead.
// Não é transacional; sobras ficam para o Reconciler.
func (uc *LeadUseCase) Delete(ctx context.Context, leadID string) (*DeleteLeadOutput, error) {
	if !isValidID(leadID) {
		return nil, invalidReference("Invalid lead ID")
	}
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, lookupError(err, "Lead not found")
	}

	if agentID := lead.AgentID(); agentID != "" {
		uc.pullFromAgent(ctx, agentID, leadID)
	}

	buyers, err := uc.Buyers.DeleteByLeadID(ctx, leadID)
	if err != nil {
		return nil, storeError("falha ao apagar buyers do lead", err)
	}
	sellers, err := uc.Sellers.DeleteByLeadID(ctx, leadID)
	if err != nil {
		return nil, storeError("falha ao apagar sellers do lead", err)
	}

	if err := uc.Leads.Delete(ctx, leadID); err != nil {
		return nil, lookupError(err, "Lead not found")
	}

	uc.Log.Info("lead apagado", "lead_id", leadID, "buyers_deleted", buyers, "sellers_deleted", sellers)
	uc.publish(ctx, entity.Event{
		Type:            entity.EventLeadDeleted,
		LeadID:          leadID,
		LeadName:        lead.Name,
		PreviousAgentID: lead.AgentID(),
	})

	return &DeleteLeadOutput{
		Msg:            "Lead deleted successfully",
		BuyersDeleted:  buyers,
		SellersDeleted: sellers,
	}, nil
}

func (uc *LeadUseCase) AddNote(ctx context.Context, leadID string, input AddNoteInput) (*entity.Lead, error) {
	if !isValidID(leadID) {
		return nil, invalidReference("Invalid lead ID")
	}
	if errs := ValidateAddNoteInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	note := entity.Note{Text: input.Text, CreatedAt: time.Now().UTC()}
	if err := uc.Leads.AddNote(ctx, leadID, note); err != nil {
		return nil, lookupError(err, "Lead not found")
	}

	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, lookupError(err, "Lead not found")
	}
	return lead, nil
}
