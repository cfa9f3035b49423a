package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) Create(ctx context.Context, a *entity.Admin) error {
	query := `INSERT INTO admins (id, email, password, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.DB.ExecContext(ctx, query, a.ID, a.Email, a.Password, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	query := `SELECT id, email, password, created_at FROM admins WHERE email = $1`

	var a entity.Admin
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.Password, &a.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}
