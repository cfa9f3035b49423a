package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const buyerColumns = `id, lead_id, interested_location, interested_square_feet, assigned_agent, created_at, updated_at`

type BuyerRepository struct {
	DB *sql.DB
}

func NewBuyerRepository(db *sql.DB) *BuyerRepository {
	return &BuyerRepository{DB: db}
}

func (r *BuyerRepository) Create(ctx context.Context, b *entity.Buyer) error {
	query := `INSERT INTO buyers (` + buyerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctx, query,
		b.ID,
		b.LeadID,
		nullString(b.InterestedLocation),
		nullString(string(b.InterestedSquareFeet)),
		nullID(b.AssignedAgent),
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func scanBuyer(row scanner) (*entity.Buyer, error) {
	var (
		b                   entity.Buyer
		location, sqft, agt sql.NullString
	)
	if err := row.Scan(&b.ID, &b.LeadID, &location, &sqft, &agt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.InterestedLocation = fromNull(location)
	b.InterestedSquareFeet = entity.Numeric(fromNull(sqft))
	b.AssignedAgent = optionalID(agt)
	return &b, nil
}

func (r *BuyerRepository) FindByID(ctx context.Context, id string) (*entity.Buyer, error) {
	b, err := scanBuyer(r.DB.QueryRowContext(ctx, `SELECT `+buyerColumns+` FROM buyers WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (r *BuyerRepository) List(ctx context.Context) ([]*entity.Buyer, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+buyerColumns+` FROM buyers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buyers := []*entity.Buyer{}
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, err
		}
		buyers = append(buyers, b)
	}
	return buyers, rows.Err()
}

func (r *BuyerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM buyers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *BuyerRepository) DeleteByLeadID(ctx context.Context, leadID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM buyers WHERE lead_id = $1`, leadID)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res)
}
