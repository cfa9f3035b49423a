package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

// Transaction é uma saga: a store não tem transação entre documentos, então
// cada passo pode registrar a compensação que o desfaz.
type Transaction struct {
	steps []Step
	log   *logger.Logger
}

type Step struct {
	Name       string
	Fn         func(context.Context) error
	Compensate func(context.Context) error // opcional
}

func NewTransaction(log *logger.Logger) *Transaction {
	if log == nil {
		log = logger.NewNop()
	}
	return &Transaction{log: log}
}

func (t *Transaction) AddStep(name string, fn, compensate func(context.Context) error) {
	t.steps = append(t.steps, Step{Name: name, Fn: fn, Compensate: compensate})
}

// Execute roda os passos em ordem. Se um falha, compensa os anteriores em
// ordem reversa e devolve o erro original embrulhado.
func (t *Transaction) Execute(ctx context.Context) error {
	for i, step := range t.steps {
		if err := step.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", step.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		step := t.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			t.log.Warn("⚠️ compensação falhou, risco de inconsistência", "step", step.Name, "error", err)
		}
	}
}
