package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AgentHandler struct {
	UC  *usecase.AgentUseCase
	log *logger.Logger
}

func NewAgentHandler(uc *usecase.AgentUseCase, log *logger.Logger) *AgentHandler {
	return &AgentHandler{UC: uc, log: orNop(log)}
}

// List (GET /agents)
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.UC.List(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

// Create (POST /agents)
func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateAgentInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, h.log, err)
		return
	}

	agent, err := h.UC.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, agent)
}

// Delete (DELETE /agents/{id})
func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// AssignLead (POST /agents/{id}/assign-lead)
func (h *AgentHandler) AssignLead(w http.ResponseWriter, r *http.Request) {
	var input usecase.AssignLeadInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, h.log, err)
		return
	}

	out, err := h.UC.AssignLead(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
