package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const sellerColumns = `id, lead_id, property_location, property_square_feet, property_value,
	property_type, bedrooms, bathrooms, listing_status, assigned_agent, created_at, updated_at`

type SellerRepository struct {
	DB *sql.DB
}

func NewSellerRepository(db *sql.DB) *SellerRepository {
	return &SellerRepository{DB: db}
}

func (r *SellerRepository) Create(ctx context.Context, s *entity.Seller) error {
	query := `
		INSERT INTO sellers (` + sellerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(ctx, query,
		s.ID,
		s.LeadID,
		nullString(s.PropertyLocation),
		nullString(string(s.PropertySquareFeet)),
		nullString(string(s.PropertyValue)),
		nullString(s.PropertyType),
		nullString(string(s.Bedrooms)),
		nullString(string(s.Bathrooms)),
		s.ListingStatus,
		nullID(s.AssignedAgent),
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func scanSeller(row scanner) (*entity.Seller, error) {
	var (
		s                            entity.Seller
		location, sqft, value, ptype sql.NullString
		beds, baths, agt             sql.NullString
	)
	err := row.Scan(
		&s.ID,
		&s.LeadID,
		&location,
		&sqft,
		&value,
		&ptype,
		&beds,
		&baths,
		&s.ListingStatus,
		&agt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.PropertyLocation = fromNull(location)
	s.PropertySquareFeet = entity.Numeric(fromNull(sqft))
	s.PropertyValue = entity.Numeric(fromNull(value))
	s.PropertyType = fromNull(ptype)
	s.Bedrooms = entity.Numeric(fromNull(beds))
	s.Bathrooms = entity.Numeric(fromNull(baths))
	s.AssignedAgent = optionalID(agt)
	return &s, nil
}

func (r *SellerRepository) FindByID(ctx context.Context, id string) (*entity.Seller, error) {
	s, err := scanSeller(r.DB.QueryRowContext(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *SellerRepository) List(ctx context.Context) ([]*entity.Seller, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+sellerColumns+` FROM sellers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sellers := []*entity.Seller{}
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, s)
	}
	return sellers, rows.Err()
}

func sellerPatchSet(p entity.SellerPatch) *setBuilder {
	b := &setBuilder{}
	text := func(col string, v *string) {
		if v != nil {
			b.add(col, nullString(*v))
		}
	}
	num := func(col string, v *entity.Numeric) {
		if v != nil {
			b.add(col, nullString(string(*v)))
		}
	}
	text("property_location", p.PropertyLocation)
	num("property_square_feet", p.PropertySquareFeet)
	num("property_value", p.PropertyValue)
	text("property_type", p.PropertyType)
	num("bedrooms", p.Bedrooms)
	num("bathrooms", p.Bathrooms)
	if p.ListingStatus != nil {
		b.add("listing_status", *p.ListingStatus)
	}
	if p.AssignedAgent != nil {
		b.add("assigned_agent", nullString(*p.AssignedAgent))
	}
	return b
}

func (r *SellerRepository) Update(ctx context.Context, id string, patch entity.SellerPatch) (*entity.Seller, error) {
	b := sellerPatchSet(patch)
	if b.empty() {
		return r.FindByID(ctx, id)
	}

	b.add("updated_at", time.Now().UTC())
	set, args := b.build(id)
	s, err := scanSeller(r.DB.QueryRowContext(ctx, `UPDATE sellers `+set+` RETURNING `+sellerColumns, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *SellerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sellers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *SellerRepository) DeleteByLeadID(ctx context.Context, leadID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sellers WHERE lead_id = $1`, leadID)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res)
}
