package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Admin é quem faz login no painel.
type Admin struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewAdmin(email, passwordHash string) *Admin {
	return &Admin{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}
}

type AdminRepositoryInterface interface {
	Create(ctx context.Context, a *Admin) error
	FindByEmail(ctx context.Context, email string) (*Admin, error)
}
