package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // Driver do Postgres
)

// NewDBConnection abre a conexão e testa o Ping
func NewDBConnection(ctx context.Context, connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Store junta os repositórios e o agregador sobre a mesma conexão.
type Store struct {
	DB *sql.DB
	*Aggregator
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db, Aggregator: NewAggregator(db)}
}

func (s *Store) Admins() *AdminRepository   { return NewAdminRepository(s.DB) }
func (s *Store) Agents() *AgentRepository   { return NewAgentRepository(s.DB) }
func (s *Store) Leads() *LeadRepository     { return NewLeadRepository(s.DB) }
func (s *Store) Buyers() *BuyerRepository   { return NewBuyerRepository(s.DB) }
func (s *Store) Sellers() *SellerRepository { return NewSellerRepository(s.DB) }

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
