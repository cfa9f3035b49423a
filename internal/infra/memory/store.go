// Package memory implementa o Record Store em memória. Um único mutex serializa
// as escritas, então set-union e pull no mesmo registro nunca perdem update.
// Leituras devolvem cópias.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xavierca1/ligue-crm/internal/aggregate"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type entry[T any] struct {
	seq uint64
	v   T
}

type table[T any] map[string]*entry[T]

// ordered devolve os valores na ordem de inserção.
func (t table[T]) ordered() []T {
	entries := make([]*entry[T], 0, len(t))
	for _, e := range t {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.v
	}
	return out
}

type Store struct {
	mu  sync.RWMutex
	seq uint64

	admins  table[*entity.Admin]
	agents  table[*entity.Agent]
	leads   table[*entity.Lead]
	buyers  table[*entity.Buyer]
	sellers table[*entity.Seller]
}

func NewStore() *Store {
	return &Store{
		admins:  table[*entity.Admin]{},
		agents:  table[*entity.Agent]{},
		leads:   table[*entity.Lead]{},
		buyers:  table[*entity.Buyer]{},
		sellers: table[*entity.Seller]{},
	}
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) Admins() *AdminRepository   { return &AdminRepository{s: s} }
func (s *Store) Agents() *AgentRepository   { return &AgentRepository{s: s} }
func (s *Store) Leads() *LeadRepository     { return &LeadRepository{s: s} }
func (s *Store) Buyers() *BuyerRepository   { return &BuyerRepository{s: s} }
func (s *Store) Sellers() *SellerRepository { return &SellerRepository{s: s} }

// Aggregate roda o pipeline sobre um snapshot da coleção.
func (s *Store) Aggregate(ctx context.Context, coll aggregate.Collection, p aggregate.Pipeline) ([]aggregate.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var docs []aggregate.Document
	switch coll {
	case aggregate.Agents:
		for _, a := range s.agents.ordered() {
			docs = append(docs, a.Clone())
		}
	case aggregate.Leads:
		for _, l := range s.leads.ordered() {
			docs = append(docs, l.Clone())
		}
	case aggregate.Buyers:
		for _, b := range s.buyers.ordered() {
			docs = append(docs, b.Clone())
		}
	case aggregate.Sellers:
		for _, sl := range s.sellers.ordered() {
			docs = append(docs, sl.Clone())
		}
	default:
		s.mu.RUnlock()
		return nil, fmt.Errorf("unknown collection %q", coll)
	}
	s.mu.RUnlock()

	return aggregate.Run(docs, p), nil
}

// Ping existe para o health check.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
