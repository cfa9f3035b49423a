package memory

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AdminRepository struct{ s *Store }

func (r *AdminRepository) Create(ctx context.Context, a *entity.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.admins {
		if e.v.Email == a.Email {
			return entity.ErrEmailAlreadyExists
		}
	}
	c := *a
	r.s.admins[a.ID] = &entry[*entity.Admin]{seq: r.s.next(), v: &c}
	return nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.admins {
		if e.v.Email == email {
			c := *e.v
			return &c, nil
		}
	}
	return nil, entity.ErrNotFound
}

type AgentRepository struct{ s *Store }

func (r *AgentRepository) Create(ctx context.Context, a *entity.Agent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.agents {
		if e.v.Email == a.Email {
			return entity.ErrEmailAlreadyExists
		}
	}
	r.s.agents[a.ID] = &entry[*entity.Agent]{seq: r.s.next(), v: a.Clone()}
	return nil
}

func (r *AgentRepository) FindByID(ctx context.Context, id string) (*entity.Agent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.agents[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return e.v.Clone(), nil
}

func (r *AgentRepository) FindByEmail(ctx context.Context, email string) (*entity.Agent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.agents {
		if e.v.Email == email {
			return e.v.Clone(), nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *AgentRepository) List(ctx context.Context) ([]*entity.Agent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*entity.Agent{}
	for _, a := range r.s.agents.ordered() {
		out = append(out, a.Clone())
	}
	return out, nil
}

func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.agents[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.s.agents, id)
	return nil
}

func (r *AgentRepository) AddLead(ctx context.Context, agentID, leadID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.agents[agentID]
	if !ok {
		return false, entity.ErrNotFound
	}
	if e.v.HasLead(leadID) {
		return false, nil
	}
	e.v.AssignedLeads = append(e.v.AssignedLeads, leadID)
	e.v.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *AgentRepository) RemoveLead(ctx context.Context, agentID, leadID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.agents[agentID]
	if !ok {
		return entity.ErrNotFound
	}
	kept := e.v.AssignedLeads[:0]
	for _, id := range e.v.AssignedLeads {
		if id != leadID {
			kept = append(kept, id)
		}
	}
	e.v.AssignedLeads = kept
	e.v.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *AgentRepository) IncrementLeadsHandled(ctx context.Context, agentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.agents[agentID]
	if !ok {
		return entity.ErrNotFound
	}
	e.v.PerformanceStats.TotalLeadsHandled++
	return nil
}

type LeadRepository struct{ s *Store }

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.leads[l.ID] = &entry[*entity.Lead]{seq: r.s.next(), v: l.Clone()}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.leads[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return e.v.Clone(), nil
}

func (r *LeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*entity.Lead{}
	for _, l := range r.s.leads.ordered() {
		out = append(out, l.Clone())
	}
	return out, nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.leads[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if !patch.Matches(e.v) {
		return nil, entity.ErrAgentChanged
	}
	if !patch.IsEmpty() {
		patch.Apply(e.v)
		e.v.UpdatedAt = time.Now().UTC()
	}
	return e.v.Clone(), nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.leads[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.s.leads, id)
	return nil
}

func (r *LeadRepository) ClearAgent(ctx context.Context, agentID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	now := time.Now().UTC()
	for _, e := range r.s.leads {
		if e.v.AgentID() == agentID {
			e.v.AssignedAgent = nil
			e.v.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

// mutate aplica fn no lead sob o lock de escrita.
func (r *LeadRepository) mutate(leadID string, fn func(l *entity.Lead)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.leads[leadID]
	if !ok {
		return entity.ErrNotFound
	}
	fn(e.v)
	e.v.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *LeadRepository) AddBuyer(ctx context.Context, leadID, buyerID string) error {
	return r.mutate(leadID, func(l *entity.Lead) {
		if !l.HasBuyer(buyerID) {
			l.Buyers = append(l.Buyers, buyerID)
		}
	})
}

func (r *LeadRepository) RemoveBuyer(ctx context.Context, leadID, buyerID string) error {
	return r.mutate(leadID, func(l *entity.Lead) {
		kept := l.Buyers[:0]
		for _, id := range l.Buyers {
			if id != buyerID {
				kept = append(kept, id)
			}
		}
		l.Buyers = kept
	})
}

func (r *LeadRepository) AddSeller(ctx context.Context, leadID string, summary entity.SellerSummary) error {
	return r.mutate(leadID, func(l *entity.Lead) {
		if !l.HasSeller(summary.ID) {
			l.Sellers = append(l.Sellers, summary)
		}
	})
}

func (r *LeadRepository) ReplaceSeller(ctx context.Context, leadID string, summary entity.SellerSummary) error {
	return r.mutate(leadID, func(l *entity.Lead) {
		for i := range l.Sellers {
			if l.Sellers[i].ID == summary.ID {
				l.Sellers[i] = summary
			}
		}
	})
}

func (r *LeadRepository) RemoveSeller(ctx context.Context, leadID, sellerID string) error {
	return r.mutate(leadID, func(l *entity.Lead) {
		kept := l.Sellers[:0]
		for _, s := range l.Sellers {
			if s.ID != sellerID {
				kept = append(kept, s)
			}
		}
		l.Sellers = kept
	})
}

func (r *LeadRepository) AddNote(ctx context.Context, leadID string, note entity.Note) error {
	return r.mutate(leadID, func(l *entity.Lead) {
		l.Notes = append(l.Notes, note)
	})
}

type BuyerRepository struct{ s *Store }

func (r *BuyerRepository) Create(ctx context.Context, b *entity.Buyer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.buyers[b.ID] = &entry[*entity.Buyer]{seq: r.s.next(), v: b.Clone()}
	return nil
}

func (r *BuyerRepository) FindByID(ctx context.Context, id string) (*entity.Buyer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.buyers[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return e.v.Clone(), nil
}

func (r *BuyerRepository) List(ctx context.Context) ([]*entity.Buyer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*entity.Buyer{}
	for _, b := range r.s.buyers.ordered() {
		out = append(out, b.Clone())
	}
	return out, nil
}

func (r *BuyerRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.buyers[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.s.buyers, id)
	return nil
}

func (r *BuyerRepository) DeleteByLeadID(ctx context.Context, leadID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, e := range r.s.buyers {
		if e.v.LeadID == leadID {
			delete(r.s.buyers, id)
			n++
		}
	}
	return n, nil
}

type SellerRepository struct{ s *Store }

func (r *SellerRepository) Create(ctx context.Context, sl *entity.Seller) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.sellers[sl.ID] = &entry[*entity.Seller]{seq: r.s.next(), v: sl.Clone()}
	return nil
}

func (r *SellerRepository) FindByID(ctx context.Context, id string) (*entity.Seller, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.sellers[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return e.v.Clone(), nil
}

func (r *SellerRepository) List(ctx context.Context) ([]*entity.Seller, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*entity.Seller{}
	for _, sl := range r.s.sellers.ordered() {
		out = append(out, sl.Clone())
	}
	return out, nil
}

func (r *SellerRepository) Update(ctx context.Context, id string, patch entity.SellerPatch) (*entity.Seller, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.sellers[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if !patch.IsEmpty() {
		patch.Apply(e.v)
		e.v.UpdatedAt = time.Now().UTC()
	}
	return e.v.Clone(), nil
}

func (r *SellerRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sellers[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.s.sellers, id)
	return nil
}

func (r *SellerRepository) DeleteByLeadID(ctx context.Context, leadID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, e := range r.s.sellers {
		if e.v.LeadID == leadID {
			delete(r.s.sellers, id)
			n++
		}
	}
	return n, nil
}
