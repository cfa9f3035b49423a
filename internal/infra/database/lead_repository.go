package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

const leadColumns = `id, name, email, phone, source, status, lead_type, priority,
	budget_range, property_preferences, timeline, assigned_agent, buyers, sellers, notes,
	created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	budget, err := optionalJSON(l.BudgetRange)
	if err != nil {
		return err
	}
	prefs, err := optionalJSON(l.PropertyPreferences)
	if err != nil {
		return err
	}
	sellers, err := jsonValue(l.Sellers)
	if err != nil {
		return err
	}
	notes, err := jsonValue(l.Notes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = r.DB.ExecContext(ctx, query,
		l.ID,
		nullString(l.Name),
		nullString(l.Email),
		nullString(l.Phone),
		nullString(l.Source),
		nullString(l.Status),
		nullString(l.LeadType),
		nullString(l.Priority),
		budget,
		prefs,
		nullString(l.Timeline),
		nullID(l.AssignedAgent),
		pq.Array(l.Buyers),
		sellers,
		notes,
		l.CreatedAt,
		l.UpdatedAt,
	)
	return err
}

// optionalJSON devolve nil (NULL) para ponteiro nil.
func optionalJSON[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return jsonValue(v)
}

func scanLead(row scanner) (*entity.Lead, error) {
	var (
		l                                                  entity.Lead
		name, email, phone, source, status, leadType, prio sql.NullString
		timeline, agent                                    sql.NullString
		budget, prefs, sellers, notes                      []byte
		buyers                                             []string
	)
	err := row.Scan(
		&l.ID,
		&name, &email, &phone, &source, &status, &leadType, &prio,
		&budget,
		&prefs,
		&timeline,
		&agent,
		pq.Array(&buyers),
		&sellers,
		&notes,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Name = fromNull(name)
	l.Email = fromNull(email)
	l.Phone = fromNull(phone)
	l.Source = fromNull(source)
	l.Status = fromNull(status)
	l.LeadType = fromNull(leadType)
	l.Priority = fromNull(prio)
	l.Timeline = fromNull(timeline)
	l.AssignedAgent = optionalID(agent)

	if len(budget) > 0 {
		l.BudgetRange = &entity.BudgetRange{}
		if err := json.Unmarshal(budget, l.BudgetRange); err != nil {
			return nil, fmt.Errorf("budget_range inválido no lead %s: %w", l.ID, err)
		}
	}
	if len(prefs) > 0 {
		l.PropertyPreferences = &entity.PropertyPreferences{}
		if err := json.Unmarshal(prefs, l.PropertyPreferences); err != nil {
			return nil, fmt.Errorf("property_preferences inválido no lead %s: %w", l.ID, err)
		}
	}

	l.Buyers = buyers
	if l.Buyers == nil {
		l.Buyers = []string{}
	}
	l.Sellers = []entity.SellerSummary{}
	if len(sellers) > 0 {
		if err := json.Unmarshal(sellers, &l.Sellers); err != nil {
			return nil, fmt.Errorf("sellers inválido no lead %s: %w", l.ID, err)
		}
	}
	l.Notes = []entity.Note{}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &l.Notes); err != nil {
			return nil, fmt.Errorf("notes inválido no lead %s: %w", l.ID, err)
		}
	}
	return &l, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	l, err := scanLead(row)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *LeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// leadPatchSet traduz o patch para o SET do UPDATE. Vazio quando o patch é vazio.
func leadPatchSet(p entity.LeadPatch) (*setBuilder, error) {
	b := &setBuilder{}
	text := func(col string, v *string) {
		if v != nil {
			b.add(col, nullString(*v))
		}
	}
	text("name", p.Name)
	text("email", p.Email)
	text("phone", p.Phone)
	text("source", p.Source)
	text("status", p.Status)
	text("lead_type", p.LeadType)
	text("priority", p.Priority)
	if err := jsonColumn(b, "budget_range", p.ClearBudgetRange, p.BudgetRange); err != nil {
		return nil, err
	}
	if err := jsonColumn(b, "property_preferences", p.ClearPropertyPreferences, p.PropertyPreferences); err != nil {
		return nil, err
	}
	text("timeline", p.Timeline)
	if p.AssignedAgent != nil {
		b.add("assigned_agent", nullString(*p.AssignedAgent))
	}
	return b, nil
}

// jsonColumn grava NULL quando null, o JSON de v quando presente, ou nada.
func jsonColumn[T any](b *setBuilder, col string, null bool, v *T) error {
	switch {
	case null:
		b.add(col, nil)
	case v != nil:
		raw, err := jsonValue(v)
		if err != nil {
			return err
		}
		b.add(col, raw)
	}
	return nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	b, err := leadPatchSet(patch)
	if err != nil {
		return nil, err
	}
	if b.empty() {
		l, err := r.FindByID(ctx, id)
		if err == nil && !patch.Matches(l) {
			return nil, entity.ErrAgentChanged
		}
		return l, err
	}

	b.add("updated_at", time.Now().UTC())
	set, args := b.build(id)
	set, args = withAgentCondition(set, args, patch.IfAgent)
	row := r.DB.QueryRowContext(ctx, `UPDATE leads `+set+` RETURNING `+leadColumns, args...)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) && patch.IfAgent != nil {
		// nenhuma linha: ou o lead sumiu ou o dono mudou
		if _, findErr := r.FindByID(ctx, id); findErr == nil {
			return nil, entity.ErrAgentChanged
		}
	}
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

// withAgentCondition acrescenta o compare-and-set do dono ao WHERE.
func withAgentCondition(set string, args []any, ifAgent *string) (string, []any) {
	if ifAgent == nil {
		return set, args
	}
	args = append(args, nullString(*ifAgent))
	return fmt.Sprintf("%s AND assigned_agent IS NOT DISTINCT FROM $%d", set, len(args)), args
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *LeadRepository) ClearAgent(ctx context.Context, agentID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET assigned_agent = NULL, updated_at = $2 WHERE assigned_agent = $1`,
		agentID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return rowsAffected(res)
}

// exec roda um UPDATE de uma linha em leads: $1 é sempre o id do lead.
func (r *LeadRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *LeadRepository) AddBuyer(ctx context.Context, leadID, buyerID string) error {
	return r.exec(ctx, `
		UPDATE leads
		SET buyers = CASE WHEN $2 = ANY(buyers) THEN buyers ELSE array_append(buyers, $2) END,
			updated_at = $3
		WHERE id = $1
	`, leadID, buyerID, time.Now().UTC())
}

func (r *LeadRepository) RemoveBuyer(ctx context.Context, leadID, buyerID string) error {
	return r.exec(ctx,
		`UPDATE leads SET buyers = array_remove(buyers, $2), updated_at = $3 WHERE id = $1`,
		leadID, buyerID, time.Now().UTC())
}

func (r *LeadRepository) AddSeller(ctx context.Context, leadID string, summary entity.SellerSummary) error {
	doc, err := jsonValue(summary)
	if err != nil {
		return err
	}
	return r.exec(ctx, `
		UPDATE leads
		SET sellers = CASE
				WHEN EXISTS (SELECT 1 FROM jsonb_array_elements(sellers) e WHERE e->>'_id' = $3) THEN sellers
				ELSE sellers || jsonb_build_array($2::jsonb)
			END,
			updated_at = $4
		WHERE id = $1
	`, leadID, doc, summary.ID, time.Now().UTC())
}

func (r *LeadRepository) ReplaceSeller(ctx context.Context, leadID string, summary entity.SellerSummary) error {
	doc, err := jsonValue(summary)
	if err != nil {
		return err
	}
	return r.exec(ctx, `
		UPDATE leads
		SET sellers = COALESCE((
				SELECT jsonb_agg(CASE WHEN e->>'_id' = $3 THEN $2::jsonb ELSE e END ORDER BY ord)
				FROM jsonb_array_elements(sellers) WITH ORDINALITY AS t(e, ord)
			), '[]'::jsonb),
			updated_at = $4
		WHERE id = $1
	`, leadID, doc, summary.ID, time.Now().UTC())
}

func (r *LeadRepository) RemoveSeller(ctx context.Context, leadID, sellerID string) error {
	return r.exec(ctx, `
		UPDATE leads
		SET sellers = COALESCE((
				SELECT jsonb_agg(e ORDER BY ord)
				FROM jsonb_array_elements(sellers) WITH ORDINALITY AS t(e, ord)
				WHERE e->>'_id' <> $2
			), '[]'::jsonb),
			updated_at = $3
		WHERE id = $1
	`, leadID, sellerID, time.Now().UTC())
}

func (r *LeadRepository) AddNote(ctx context.Context, leadID string, note entity.Note) error {
	doc, err := jsonValue(note)
	if err != nil {
		return err
	}
	return r.exec(ctx,
		`UPDATE leads SET notes = notes || jsonb_build_array($2::jsonb), updated_at = $3 WHERE id = $1`,
		leadID, doc, time.Now().UTC())
}
