package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBackendCall(t *testing.T) {
	c := New("test")
	c.ObserveBackendCall("Category", "list", "ok", 20*time.Millisecond)
	c.ObserveBackendCall("Category", "list", "ok", 10*time.Millisecond)
	c.ObserveBackendCall("Category", "delete", "result_error", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.BackendCalls.WithLabelValues("Category", "list", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BackendCalls.WithLabelValues("Category", "delete", "result_error")))

	var nilCollector *Collector
	nilCollector.ObserveBackendCall("x", "y", "z", 0)
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	c := New("test")
	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/categories/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	r.Handle("/metrics", c.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/42", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequestsTotal.WithLabelValues("GET", "/categories/{id}", "418")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "test_http_requests_total")
}
