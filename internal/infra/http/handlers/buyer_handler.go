package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type BuyerHandler struct {
	UC  *usecase.BuyerUseCase
	log *logger.Logger
}

func NewBuyerHandler(uc *usecase.BuyerUseCase, log *logger.Logger) *BuyerHandler {
	return &BuyerHandler{UC: uc, log: orNop(log)}
}

func (h *BuyerHandler) List(w http.ResponseWriter, r *http.Request) {
	buyers, err := h.UC.List(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, buyers)
}

func (h *BuyerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateBuyerInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, h.log, err)
		return
	}

	buyer, err := h.UC.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, buyer)
}

func (h *BuyerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.UC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Msg: "Buyer deleted successfully"})
}
