package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Interceptor outcomes
const (
	InterceptorOK       = "ok"
	InterceptorError    = "error"
	InterceptorCanceled = "canceled"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	// Diff metrics
	DiffsTotal   *prometheus.CounterVec
	ChangesTotal *prometheus.CounterVec
	DiffDuration prometheus.Histogram

	// Interceptor metrics
	InterceptorRequestsTotal *prometheus.CounterVec
	InterceptorDuration      prometheus.Histogram

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		DiffsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphql_inspector_diffs_total",
				Help: "Total number of schema diffs by conclusion",
			},
			[]string{"conclusion"},
		),
		ChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphql_inspector_changes_total",
				Help: "Total number of reported changes by criticality level",
			},
			[]string{"level"},
		),
		DiffDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "graphql_inspector_diff_duration_seconds",
				Help:    "Schema diff duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),

		InterceptorRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphql_inspector_interceptor_requests_total",
				Help: "Total number of interceptor calls by outcome",
			},
			[]string{"outcome"},
		),
		InterceptorDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "graphql_inspector_interceptor_duration_seconds",
				Help:    "Interceptor call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphql_inspector_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graphql_inspector_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		m.DiffsTotal,
		m.ChangesTotal,
		m.DiffDuration,
		m.InterceptorRequestsTotal,
		m.InterceptorDuration,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// ObserveDiff records one finished diff
func (m *Metrics) ObserveDiff(conclusion string, levels []string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DiffsTotal.WithLabelValues(conclusion).Inc()
	for _, level := range levels {
		m.ChangesTotal.WithLabelValues(level).Inc()
	}
	m.DiffDuration.Observe(duration.Seconds())
}

// ObserveInterceptor records one interceptor call
func (m *Metrics) ObserveInterceptor(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.InterceptorRequestsTotal.WithLabelValues(outcome).Inc()
	m.InterceptorDuration.Observe(duration.Seconds())
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments HTTP requests. Requests are labelled by
// their mux route template so path parameters do not explode cardinality.
func HTTPMetricsMiddleware(metrics *Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if metrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// MetricsHandler serves the registry in the Prometheus exposition format
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
