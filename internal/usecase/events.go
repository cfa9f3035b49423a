package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

// Recorder recebe as métricas de domínio; implementado em infra/metrics.
type Recorder interface {
	EventPublishFailed(eventType string)
	LeadAssigned()
	Repaired(kind string, n int)
}

type noopRecorder struct{}

func (noopRecorder) EventPublishFailed(string) {}
func (noopRecorder) LeadAssigned()             {}
func (noopRecorder) Repaired(string, int)      {}

// Notifier agrupa o que todo use case de escrita compartilha: log, eventos e métricas.
type Notifier struct {
	Events  EventPublisher
	Metrics Recorder
	Log     *logger.Logger
}

func NewNotifier(events EventPublisher, metrics Recorder, log *logger.Logger) *Notifier {
	n := &Notifier{Events: events, Metrics: metrics, Log: log}
	if n.Events == nil {
		n.Events = noopPublisher{}
	}
	if n.Metrics == nil {
		n.Metrics = noopRecorder{}
	}
	if n.Log == nil {
		n.Log = logger.NewNop()
	}
	return n
}

// publish é best-effort: a mutação já aconteceu.
func (n *Notifier) publish(ctx context.Context, ev entity.Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := n.Events.Publish(ctx, ev); err != nil {
		n.Metrics.EventPublishFailed(ev.Type)
		n.Log.Warn("falha ao publicar evento", "type", ev.Type, "lead_id", ev.LeadID, "error", err)
	}
}

func assignedEvent(lead *entity.Lead, agent *entity.Agent, previous string) entity.Event {
	return entity.Event{
		Type:            entity.EventLeadAssigned,
		LeadID:          lead.ID,
		LeadName:        lead.Name,
		AgentID:         agent.ID,
		AgentName:       agent.Name,
		AgentEmail:      agent.Email,
		PreviousAgentID: previous,
	}
}
