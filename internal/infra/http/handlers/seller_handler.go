package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type SellerHandler struct {
	UC  *usecase.SellerUseCase
	log *logger.Logger
}

func NewSellerHandler(uc *usecase.SellerUseCase, log *logger.Logger) *SellerHandler {
	return &SellerHandler{UC: uc, log: orNop(log)}
}

func (h *SellerHandler) List(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.UC.List(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sellers)
}

func (h *SellerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateSellerInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, h.log, err)
		return
	}

	seller, err := h.UC.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, seller)
}

// Update (PUT /sellers/{id}): leadId e createdAt no corpo são ignorados.
func (h *SellerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateSellerInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, h.log, err)
		return
	}

	seller, err := h.UC.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

func (h *SellerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.UC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Msg: "Seller deleted successfully"})
}
