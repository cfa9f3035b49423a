package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// plainHasher evita o custo do bcrypt nos testes do coordenador.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(hash, p string) error {
	if hash != "hashed:"+p {
		return errors.New("mismatch")
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev entity.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type countingRecorder struct {
	mu            sync.Mutex
	publishFailed map[string]int
	assigned      int
	repaired      map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{publishFailed: map[string]int{}, repaired: map[string]int{}}
}

func (c *countingRecorder) EventPublishFailed(t string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishFailed[t]++
}

func (c *countingRecorder) LeadAssigned() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assigned++
}

func (c *countingRecorder) Repaired(kind string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repaired[kind] += n
}

type fixture struct {
	store   *memory.Store
	events  *recordingPublisher
	metrics *countingRecorder
	agents  *usecase.AgentUseCase
	leads   *usecase.LeadUseCase
	buyers  *usecase.BuyerUseCase
	sellers *usecase.SellerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithSync(t, false)
}

func newFixtureWithSync(t *testing.T, syncSummaries bool) *fixture {
	t.Helper()
	store := memory.NewStore()
	events := &recordingPublisher{}
	metrics := newCountingRecorder()
	n := usecase.NewNotifier(events, metrics, logger.NewNop())

	return &fixture{
		store:   store,
		events:  events,
		metrics: metrics,
		agents:  usecase.NewAgentUseCase(store.Agents(), store.Leads(), plainHasher{}, n),
		leads:   usecase.NewLeadUseCase(store.Agents(), store.Leads(), store.Buyers(), store.Sellers(), n),
		buyers:  usecase.NewBuyerUseCase(store.Leads(), store.Buyers(), n),
		sellers: usecase.NewSellerUseCase(store.Leads(), store.Sellers(), syncSummaries, n),
	}
}

func (f *fixture) agent(t *testing.T, name, email string) *entity.Agent {
	t.Helper()
	a, err := f.agents.Create(context.Background(), usecase.CreateAgentInput{Name: name, Email: email, Password: "p"})
	require.NoError(t, err)
	return a
}

func (f *fixture) lead(t *testing.T, in usecase.CreateLeadInput) *entity.Lead {
	t.Helper()
	l, err := f.leads.Create(context.Background(), in)
	require.NoError(t, err)
	return l
}

func (f *fixture) getAgent(t *testing.T, id string) *entity.Agent {
	t.Helper()
	a, err := f.store.Agents().FindByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

func (f *fixture) getLead(t *testing.T, id string) *entity.Lead {
	t.Helper()
	l, err := f.store.Leads().FindByID(context.Background(), id)
	require.NoError(t, err)
	return l
}

// requireConsistent checa a aresta lead<->agente nos dois sentidos.
func (f *fixture) requireConsistent(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	agents, err := f.store.Agents().List(ctx)
	require.NoError(t, err)
	leads, err := f.store.Leads().List(ctx)
	require.NoError(t, err)

	byID := map[string]*entity.Agent{}
	for _, a := range agents {
		byID[a.ID] = a
	}
	for _, l := range leads {
		if id := l.AgentID(); id != "" {
			a, ok := byID[id]
			require.True(t, ok, "lead %s aponta para agente inexistente", l.ID)
			require.True(t, a.HasLead(l.ID), "agente %s não lista lead %s", id, l.ID)
		}
	}
	leadByID := map[string]*entity.Lead{}
	for _, l := range leads {
		leadByID[l.ID] = l
	}
	for _, a := range agents {
		for _, lid := range a.AssignedLeads {
			l, ok := leadByID[lid]
			require.True(t, ok, "agente %s lista lead inexistente %s", a.ID, lid)
			require.Equal(t, a.ID, l.AgentID())
		}
	}
}
