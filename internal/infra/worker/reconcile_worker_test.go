package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type countingReconciler struct {
	runs atomic.Int32
	err  error
}

func (c *countingReconciler) Run(ctx context.Context) (*usecase.ReconcileReport, error) {
	c.runs.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &usecase.ReconcileReport{OrphanBuyers: 1}, nil
}

func TestReconcileWorkerRunsUntilCanceled(t *testing.T) {
	r := &countingReconciler{}
	w := NewReconcileWorker(r, 5*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.runs.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker não encerrou")
	}
}

func TestReconcileWorkerSurvivesErrors(t *testing.T) {
	r := &countingReconciler{err: errors.New("store down")}
	w := NewReconcileWorker(r, time.Hour, nil)

	w.runOnce(context.Background())
	w.runOnce(context.Background())

	assert.Equal(t, int32(2), r.runs.Load())
}
