package worker

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type Reconciler interface {
	Run(ctx context.Context) (*usecase.ReconcileReport, error)
}

// ReconcileWorker roda a passada de reconciliação em intervalo fixo.
type ReconcileWorker struct {
	reconciler   Reconciler
	tickInterval time.Duration
	log          *logger.Logger
}

func NewReconcileWorker(r Reconciler, interval time.Duration, log *logger.Logger) *ReconcileWorker {
	if log == nil {
		log = logger.NewNop()
	}
	return &ReconcileWorker{reconciler: r, tickInterval: interval, log: log}
}

// Start roda uma passada imediata e depois a cada tick, até ctx acabar.
func (w *ReconcileWorker) Start(ctx context.Context) {
	w.log.Info("🕒 worker de reconciliação iniciado", "interval", w.tickInterval.String())

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker de reconciliação encerrado")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ReconcileWorker) runOnce(ctx context.Context) {
	start := time.Now()
	report, err := w.reconciler.Run(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error("❌ reconciliação falhou", "error", err)
		}
		return
	}
	if total := report.Total(); total > 0 {
		w.log.Info("✅ reconciliação concluída", "repaired", total, "elapsed", time.Since(start).String())
	}
}
