package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/ligue-crm/internal/infra/security"
)

func TestRequireAuth(t *testing.T) {
	issuer := security.NewJWTIssuer("segredo", time.Hour)
	token, err := issuer.Generate("admin-1", "admin@x.com")
	assert.NoError(t, err)

	var seen *security.Claims
	protected := RequireAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"Valid Token", "Bearer " + token, http.StatusNoContent},
		{"Missing Header", "", http.StatusUnauthorized},
		{"Wrong Scheme", "Basic " + token, http.StatusUnauthorized},
		{"Bad Token", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/agents", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				if assert.NotNil(t, seen) {
					assert.Equal(t, "admin-1", seen.Subject)
				}
			} else {
				assert.Nil(t, seen)
				assert.Contains(t, rec.Body.String(), "AUTH_FAILED")
			}
		})
	}
}
