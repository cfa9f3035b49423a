package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// EventPublisher publica eventos de domínio depois da mutação. Falha aqui
// nunca desfaz a operação.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Generate(subject, email string) (string, error)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, entity.Event) error { return nil }
