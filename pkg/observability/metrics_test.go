package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersAll(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	require.NotNil(t, m)

	// Registering twice on the same registry panics.
	assert.Panics(t, func() { NewMetrics(registry) })
}

func TestMetrics_ObserveDiff(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveDiff("failure", []string{"BREAKING", "BREAKING", "NON_BREAKING"}, 20*time.Millisecond)
	m.ObserveDiff("success", nil, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DiffsTotal.WithLabelValues("failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DiffsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ChangesTotal.WithLabelValues("BREAKING")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ChangesTotal.WithLabelValues("NON_BREAKING")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DiffDuration))
}

func TestMetrics_ObserveInterceptor(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveInterceptor(InterceptorOK, time.Millisecond)
	m.ObserveInterceptor(InterceptorError, time.Millisecond)
	m.ObserveInterceptor(InterceptorError, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.InterceptorRequestsTotal.WithLabelValues(InterceptorOK)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.InterceptorRequestsTotal.WithLabelValues(InterceptorError)))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDiff("success", []string{"BREAKING"}, time.Second)
		m.ObserveInterceptor(InterceptorOK, time.Second)
	})
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware(m))
	router.HandleFunc("/api/v1/diff", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	for _, path := range []string{"/items/1", "/items/2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/diff", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/items/{id}", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/diff", "400")))
}

func TestMetricsHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.ObserveDiff("neutral", nil, time.Millisecond)

	rec := httptest.NewRecorder()
	MetricsHandler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `graphql_inspector_diffs_total{conclusion="neutral"} 1`), body)
}
