package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/leads/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/leads/{id}", "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/abc", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/leads/{id}", "404")))
	assert.Zero(t, testutil.ToFloat64(activeConnections))
}

func TestDomainRecorder(t *testing.T) {
	var d Domain

	before := testutil.ToFloat64(leadsAssigned)
	d.LeadAssigned()
	assert.Equal(t, before+1, testutil.ToFloat64(leadsAssigned))

	d.EventPublishFailed("lead.assigned")
	assert.GreaterOrEqual(t, testutil.ToFloat64(eventPublishErrors.WithLabelValues("lead.assigned")), 1.0)

	repaired := testutil.ToFloat64(referencesRepaired.WithLabelValues("orphan_buyer"))
	d.Repaired("orphan_buyer", 3)
	d.Repaired("orphan_buyer", 0)
	assert.Equal(t, repaired+3, testutil.ToFloat64(referencesRepaired.WithLabelValues("orphan_buyer")))
}
