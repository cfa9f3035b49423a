package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Pinger é a store vista pelo health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Broker reporta se a conexão com o RabbitMQ segue viva.
type Broker interface {
	Healthy() bool
}

type HealthHandler struct {
	Store     Pinger
	StoreName string
	Broker    Broker
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler aceita broker nil quando os eventos estão desligados.
func NewHealthHandler(store Pinger, storeName string, broker Broker) *HealthHandler {
	return &HealthHandler{
		Store:     store,
		StoreName: storeName,
		Broker:    broker,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.Store != nil {
		if err := h.Store.Ping(ctx); err != nil {
			deps[h.StoreName] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps[h.StoreName] = "healthy"
		}
	}

	if h.Broker != nil {
		if h.Broker.Healthy() {
			deps["rabbitmq"] = "healthy"
		} else {
			deps["rabbitmq"] = "unhealthy: connection closed"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
