package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/analytics"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/infra/security"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func TestRouterGuardsProtectedRoutes(t *testing.T) {
	s := memory.NewStore()
	tokens := security.NewJWTIssuer("segredo", time.Hour)
	hasher := security.NewBcryptHasher()

	router := newRouter(routes{
		Auth:      handlers.NewAuthHandler(usecase.NewLoginUseCase(s.Admins(), hasher, tokens, nil), nil),
		Health:    handlers.NewHealthHandler(s, "memory", nil),
		Agents:    handlers.NewAgentHandler(usecase.NewAgentUseCase(s.Agents(), s.Leads(), hasher, nil), nil),
		Leads:     handlers.NewLeadHandler(usecase.NewLeadUseCase(s.Agents(), s.Leads(), s.Buyers(), s.Sellers(), nil), nil),
		Buyers:    handlers.NewBuyerHandler(usecase.NewBuyerUseCase(s.Leads(), s.Buyers(), nil), nil),
		Sellers:   handlers.NewSellerHandler(usecase.NewSellerUseCase(s.Leads(), s.Sellers(), false, nil), nil),
		Analytics: handlers.NewAnalyticsHandler(analytics.NewService(s), nil),
		Verifier:  tokens,
	}, []string{"*"})

	token, err := tokens.Generate("admin-1", "admin@x.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"Health Is Public", "/health", "", http.StatusOK},
		{"Metrics Is Public", "/metrics", "", http.StatusOK},
		{"Agents Need Token", "/agents", "", http.StatusUnauthorized},
		{"Agents With Token", "/agents", token, http.StatusOK},
		{"Analytics With Token", "/analytics/market-value", token, http.StatusOK},
		{"Analytics Need Token", "/analytics/conversion-rate", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
