package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ReconcileReport conta os reparos de uma passada.
type ReconcileReport struct {
	StaleAgentLeads   int `json:"staleAgentLeads"`   // agente lista lead que não aponta para ele
	DanglingLeadAgent int `json:"danglingLeadAgent"` // lead aponta para agente apagado
	MissingAgentLeads int `json:"missingAgentLeads"` // lead aponta para agente que não o lista
	OrphanBuyers      int `json:"orphanBuyers"`
	OrphanSellers     int `json:"orphanSellers"`
	MissingBuyerRefs  int `json:"missingBuyerRefs"`
	MissingSellerRefs int `json:"missingSellerRefs"`
	StaleBuyerRefs    int `json:"staleBuyerRefs"`
	StaleSellerRefs   int `json:"staleSellerRefs"`
}

func (r ReconcileReport) Total() int {
	return r.StaleAgentLeads + r.DanglingLeadAgent + r.MissingAgentLeads +
		r.OrphanBuyers + r.OrphanSellers + r.MissingBuyerRefs + r.MissingSellerRefs +
		r.StaleBuyerRefs + r.StaleSellerRefs
}

// Reconciler repara referências penduradas que um delete interrompido no
// meio pode deixar. Cada reparo é conferido contra o estado atual antes de
// mutar, já que o snapshot pode estar velho.
type Reconciler struct {
	Agents  entity.AgentRepositoryInterface
	Leads   entity.LeadRepositoryInterface
	Buyers  entity.BuyerRepositoryInterface
	Sellers entity.SellerRepositoryInterface
	*Notifier
}

func NewReconciler(
	agents entity.AgentRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	buyers entity.BuyerRepositoryInterface,
	sellers entity.SellerRepositoryInterface,
	notifier *Notifier,
) *Reconciler {
	if notifier == nil {
		notifier = NewNotifier(nil, nil, nil)
	}
	return &Reconciler{Agents: agents, Leads: leads, Buyers: buyers, Sellers: sellers, Notifier: notifier}
}

func (r *Reconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	agents, err := r.Agents.List(ctx)
	if err != nil {
		return nil, storeError("falha ao listar agentes", err)
	}
	leads, err := r.Leads.List(ctx)
	if err != nil {
		return nil, storeError("falha ao listar leads", err)
	}
	buyers, err := r.Buyers.List(ctx)
	if err != nil {
		return nil, storeError("falha ao listar buyers", err)
	}
	sellers, err := r.Sellers.List(ctx)
	if err != nil {
		return nil, storeError("falha ao listar sellers", err)
	}

	if err := r.agentEdges(ctx, agents, report); err != nil {
		return nil, err
	}
	if err := r.leadEdges(ctx, leads, report); err != nil {
		return nil, err
	}
	if err := r.ownedRecords(ctx, buyers, sellers, report); err != nil {
		return nil, err
	}
	if err := r.leadCollections(ctx, leads, report); err != nil {
		return nil, err
	}

	r.record(report)
	if total := report.Total(); total > 0 {
		r.Log.Warn("reconciliação reparou referências", "total", total, "report", *report)
	} else {
		r.Log.Debug("reconciliação sem reparos")
	}
	return report, nil
}

func (r *Reconciler) record(rep *ReconcileReport) {
	r.Metrics.Repaired("stale_agent_lead", rep.StaleAgentLeads)
	r.Metrics.Repaired("dangling_lead_agent", rep.DanglingLeadAgent)
	r.Metrics.Repaired("missing_agent_lead", rep.MissingAgentLeads)
	r.Metrics.Repaired("orphan_buyer", rep.OrphanBuyers)
	r.Metrics.Repaired("orphan_seller", rep.OrphanSellers)
	r.Metrics.Repaired("missing_buyer_ref", rep.MissingBuyerRefs)
	r.Metrics.Repaired("missing_seller_ref", rep.MissingSellerRefs)
	r.Metrics.Repaired("stale_buyer_ref", rep.StaleBuyerRefs)
	r.Metrics.Repaired("stale_seller_ref", rep.StaleSellerRefs)
}

// findLead devolve nil sem erro quando o lead não existe.
func (r *Reconciler) findLead(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := r.Leads.FindByID(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("falha ao consultar lead", err)
	}
	return lead, nil
}

// agentEdges remove de assignedLeads os leads que não apontam de volta.
func (r *Reconciler) agentEdges(ctx context.Context, agents []*entity.Agent, rep *ReconcileReport) error {
	for _, agent := range agents {
		for _, leadID := range agent.AssignedLeads {
			lead, err := r.findLead(ctx, leadID)
			if err != nil {
				return err
			}
			if lead != nil && lead.AgentID() == agent.ID {
				continue
			}
			if err := r.Agents.RemoveLead(ctx, agent.ID, leadID); err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao reparar agente", err)
			}
			rep.StaleAgentLeads++
		}
	}
	return nil
}

// leadEdges: dono apagado vira null; dono que não lista o lead ganha o reflexo.
func (r *Reconciler) leadEdges(ctx context.Context, leads []*entity.Lead, rep *ReconcileReport) error {
	for _, snapshot := range leads {
		agentID := snapshot.AgentID()
		if agentID == "" {
			continue
		}

		agent, err := r.Agents.FindByID(ctx, agentID)
		switch {
		case errors.Is(err, entity.ErrNotFound):
			lead, err := r.findLead(ctx, snapshot.ID)
			if err != nil {
				return err
			}
			if lead == nil || lead.AgentID() != agentID {
				continue
			}
			none := ""
			if _, err := r.Leads.Update(ctx, lead.ID, entity.LeadPatch{AssignedAgent: &none}); err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao reparar lead", err)
			}
			rep.DanglingLeadAgent++
		case err != nil:
			return storeError("falha ao consultar agente", err)
		case !agent.HasLead(snapshot.ID):
			lead, err := r.findLead(ctx, snapshot.ID)
			if err != nil {
				return err
			}
			if lead == nil || lead.AgentID() != agentID {
				continue
			}
			added, err := r.Agents.AddLead(ctx, agentID, lead.ID)
			if err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao reparar agente", err)
			}
			if added {
				rep.MissingAgentLeads++
			}
		}
	}
	return nil
}

// ownedRecords apaga buyers/sellers sem lead e recoloca a referência que
// faltar no lead.
func (r *Reconciler) ownedRecords(ctx context.Context, buyers []*entity.Buyer, sellers []*entity.Seller, rep *ReconcileReport) error {
	for _, b := range buyers {
		lead, err := r.findLead(ctx, b.LeadID)
		if err != nil {
			return err
		}
		if lead == nil {
			if err := r.Buyers.Delete(ctx, b.ID); err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao apagar buyer órfão", err)
			}
			rep.OrphanBuyers++
			continue
		}
		if !lead.HasBuyer(b.ID) {
			if err := r.Leads.AddBuyer(ctx, lead.ID, b.ID); err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao reparar lead", err)
			}
			rep.MissingBuyerRefs++
		}
	}

	for _, s := range sellers {
		lead, err := r.findLead(ctx, s.LeadID)
		if err != nil {
			return err
		}
		if lead == nil {
			if err := r.Sellers.Delete(ctx, s.ID); err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao apagar seller órfão", err)
			}
			rep.OrphanSellers++
			continue
		}
		if !lead.HasSeller(s.ID) {
			if err := r.Leads.AddSeller(ctx, lead.ID, s.Summary()); err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao reparar lead", err)
			}
			rep.MissingSellerRefs++
		}
	}
	return nil
}

// leadCollections tira do lead as referências a buyers/sellers que não
// existem mais ou que pertencem a outro lead.
func (r *Reconciler) leadCollections(ctx context.Context, leads []*entity.Lead, rep *ReconcileReport) error {
	for _, lead := range leads {
		for _, buyerID := range lead.Buyers {
			b, err := r.Buyers.FindByID(ctx, buyerID)
			if err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao consultar buyer", err)
			}
			if b != nil && b.LeadID == lead.ID {
				continue
			}
			if err := r.Leads.RemoveBuyer(ctx, lead.ID, buyerID); err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao reparar lead", err)
			}
			rep.StaleBuyerRefs++
		}
		for _, summary := range lead.Sellers {
			s, err := r.Sellers.FindByID(ctx, summary.ID)
			if err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao consultar seller", err)
			}
			if s != nil && s.LeadID == lead.ID {
				continue
			}
			if err := r.Leads.RemoveSeller(ctx, lead.ID, summary.ID); err != nil && !errors.Is(err, entity.ErrNotFound) {
				return storeError("falha ao reparar lead", err)
			}
			rep.StaleSellerRefs++
		}
	}
	return nil
}
