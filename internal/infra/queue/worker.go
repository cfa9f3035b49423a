package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

// AssignmentNotifier avisa o agente de que recebeu um lead.
type AssignmentNotifier interface {
	NotifyAssignment(ctx context.Context, event entity.Event) error
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  consumer
	Notifier AssignmentNotifier
	Log      *logger.Logger
}

func NewWorker(ch *amqp.Channel, notifier AssignmentNotifier, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.NewNop()
	}
	return &Worker{Channel: ch, Notifier: notifier, Log: log}
}

// Start consome a fila até ctx acabar ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Log.Info("worker de notificação aguardando na fila", "queue", queueName)
	for {
		select {
		case <-ctx.Done():
			w.Log.Info("worker de notificação encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal de consumo fechado")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event entity.Event
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Log.Warn("mensagem com JSON inválido, mandando para DLQ", "error", err)
		d.Nack(false, false)
		return
	}

	if event.Type != entity.EventLeadAssigned || event.AgentEmail == "" {
		w.Log.Debug("evento ignorado", "type", event.Type, "lead_id", event.LeadID)
		d.Ack(false)
		return
	}

	if err := w.Notifier.NotifyAssignment(ctx, event); err != nil {
		w.Log.Error("falha ao notificar agente", "agent_id", event.AgentID, "lead_id", event.LeadID, "error", err)
		// redelivery uma vez; na segunda falha vai para a DLQ
		d.Nack(false, !d.Redelivered)
		return
	}

	w.Log.Info("agente notificado", "agent_id", event.AgentID, "lead_id", event.LeadID)
	d.Ack(false)
}
