package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogMetrics_Counters(t *testing.T) {
	m := New()

	m.CacheHit("ProductUseCase.List")
	m.CacheHit("ProductUseCase.List")
	m.Fallback("ProductUseCase.List", "empty")
	m.TrackingFailure("click_store")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("ProductUseCase.List")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues("ProductUseCase.List", "empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TrackingFailures.WithLabelValues("click_store")))
}

func TestCatalogMetrics_MiddlewareUsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/42", nil))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `route="/products/{id}"`)
	assert.Contains(t, string(body), `status="404"`)
}
