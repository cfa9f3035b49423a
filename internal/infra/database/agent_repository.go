package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

const agentColumns = `id, name, email, password, role, phone_number, assigned_leads,
	total_leads_handled, closed_deals, avg_response_time, created_at, updated_at`

type AgentRepository struct {
	DB *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{DB: db}
}

func (r *AgentRepository) Create(ctx context.Context, a *entity.Agent) error {
	query := `
		INSERT INTO agents (` + agentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(ctx, query,
		a.ID,
		a.Name,
		a.Email,
		a.Password,
		a.Role,
		nullString(a.PhoneNumber),
		pq.Array(a.AssignedLeads),
		a.PerformanceStats.TotalLeadsHandled,
		a.PerformanceStats.ClosedDeals,
		a.PerformanceStats.AvgResponseTime,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func scanAgent(row scanner) (*entity.Agent, error) {
	var (
		a     entity.Agent
		phone sql.NullString
		avg   sql.NullFloat64
		leads []string
	)
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Password,
		&a.Role,
		&phone,
		pq.Array(&leads),
		&a.PerformanceStats.TotalLeadsHandled,
		&a.PerformanceStats.ClosedDeals,
		&avg,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.PhoneNumber = fromNull(phone)
	if leads == nil {
		leads = []string{}
	}
	a.AssignedLeads = leads
	if avg.Valid {
		v := avg.Float64
		a.PerformanceStats.AvgResponseTime = &v
	}
	return &a, nil
}

func (r *AgentRepository) FindByID(ctx context.Context, id string) (*entity.Agent, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)
	a, err := scanAgent(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *AgentRepository) FindByEmail(ctx context.Context, email string) (*entity.Agent, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE email = $1`, email)
	a, err := scanAgent(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *AgentRepository) List(ctx context.Context) ([]*entity.Agent, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := []*entity.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// AddLead: o WHERE garante o set-union na mesma instrução.
func (r *AgentRepository) AddLead(ctx context.Context, agentID, leadID string) (bool, error) {
	query := `
		UPDATE agents
		SET assigned_leads = array_append(assigned_leads, $2), updated_at = $3
		WHERE id = $1 AND NOT ($2 = ANY(assigned_leads))
	`

	res, err := r.DB.ExecContext(ctx, query, agentID, leadID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	// nada mudou: ou o lead já estava lá ou o agente não existe
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM agents WHERE id = $1)`, agentID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, entity.ErrNotFound
	}
	return false, nil
}

func (r *AgentRepository) RemoveLead(ctx context.Context, agentID, leadID string) error {
	query := `
		UPDATE agents
		SET assigned_leads = array_remove(assigned_leads, $2), updated_at = $3
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query, agentID, leadID, time.Now().UTC())
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *AgentRepository) IncrementLeadsHandled(ctx context.Context, agentID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE agents SET total_leads_handled = total_leads_handled + 1 WHERE id = $1`, agentID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
