package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/analytics"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AnalyticsHandler struct {
	Service *analytics.Service
	log     *logger.Logger
}

func NewAnalyticsHandler(svc *analytics.Service, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{Service: svc, log: orNop(log)}
}

// serve roda a consulta e responde 200; erro de agregação é sempre técnico.
func serve[T any](h *AnalyticsHandler, query func(context.Context) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := query(r.Context())
		if err != nil {
			writeError(w, h.log, &usecase.TechnicalError{Code: usecase.CodeStore, Message: "falha na agregação", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *AnalyticsHandler) TopLocations() http.HandlerFunc {
	return serve(h, h.Service.TopLocations)
}

func (h *AnalyticsHandler) AveragePropertyValues() http.HandlerFunc {
	return serve(h, h.Service.AveragePropertyValues)
}

func (h *AnalyticsHandler) LeadsPipeline() http.HandlerFunc {
	return serve(h, h.Service.LeadsPipeline)
}

func (h *AnalyticsHandler) BuyerInsights() http.HandlerFunc {
	return serve(h, h.Service.BuyerInsights)
}

func (h *AnalyticsHandler) SellerInsights() http.HandlerFunc {
	return serve(h, h.Service.SellerInsights)
}

func (h *AnalyticsHandler) DemandVsSupply() http.HandlerFunc {
	return serve(h, h.Service.DemandVsSupply)
}

func (h *AnalyticsHandler) MarketValue() http.HandlerFunc {
	return serve(h, h.Service.MarketValue)
}

func (h *AnalyticsHandler) ConversionRate() http.HandlerFunc {
	return serve(h, h.Service.ConversionRate)
}
