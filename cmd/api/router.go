package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	authmw "github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

type routes struct {
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Agents    *handlers.AgentHandler
	Leads     *handlers.LeadHandler
	Buyers    *handlers.BuyerHandler
	Sellers   *handlers.SellerHandler
	Analytics *handlers.AnalyticsHandler
	Verifier  authmw.TokenVerifier
}

func newRouter(h routes, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth/login", h.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.Verifier))

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", h.Agents.List)
			r.Post("/", h.Agents.Create)
			r.Delete("/{id}", h.Agents.Delete)
			r.Post("/{id}/assign-lead", h.Agents.AssignLead)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.Leads.List)
			r.Post("/", h.Leads.Create)
			r.Put("/{id}", h.Leads.Update)
			r.Delete("/{id}", h.Leads.Delete)
			r.Post("/{id}/notes", h.Leads.AddNote)
		})

		r.Route("/buyers", func(r chi.Router) {
			r.Get("/", h.Buyers.List)
			r.Post("/", h.Buyers.Create)
			r.Delete("/{id}", h.Buyers.Delete)
		})

		r.Route("/sellers", func(r chi.Router) {
			r.Get("/", h.Sellers.List)
			r.Post("/", h.Sellers.Create)
			r.Put("/{id}", h.Sellers.Update)
			r.Delete("/{id}", h.Sellers.Delete)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/top-locations", h.Analytics.TopLocations())
			r.Get("/average-property-values", h.Analytics.AveragePropertyValues())
			r.Get("/leads-pipeline", h.Analytics.LeadsPipeline())
			r.Get("/buyer-insights", h.Analytics.BuyerInsights())
			r.Get("/seller-insights", h.Analytics.SellerInsights())
			r.Get("/market-demand-vs-supply", h.Analytics.DemandVsSupply())
			r.Get("/market-value", h.Analytics.MarketValue())
			r.Get("/conversion-rate", h.Analytics.ConversionRate())
		})
	})

	return r
}
