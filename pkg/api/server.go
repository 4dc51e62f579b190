package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cameron-headspace/graphql-inspector/pkg/compatibility"
	"github.com/cameron-headspace/graphql-inspector/pkg/config"
	"github.com/cameron-headspace/graphql-inspector/pkg/httputil"
	"github.com/cameron-headspace/graphql-inspector/pkg/observability"
	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

// Server is the HTTP API around the diff pipeline
type Server struct {
	router   *mux.Router
	handler  http.Handler
	cache    *SnapshotCache
	rules    *compatibility.RuleRegistry
	health   *observability.HealthChecker
	logger   logrus.FieldLogger
	metrics  *observability.Metrics
	registry *prometheus.Registry

	cfg    *config.Config
	server config.ServerConfig
	diff   config.DiffConfig
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithLogger sets the server logger
func WithLogger(logger logrus.FieldLogger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics registers diff and HTTP metrics on registry and serves them at /metrics
func WithMetrics(registry *prometheus.Registry) ServerOption {
	return func(s *Server) {
		s.registry = registry
		s.metrics = observability.NewMetrics(registry)
	}
}

// WithVersion sets the version reported by the health endpoints
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.health = observability.NewHealthChecker(version)
	}
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, opts ...ServerOption) (*Server, error) {
	cache, err := NewSnapshotCache(cfg.Server.CacheSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: mux.NewRouter(),
		cache:  cache,
		rules:  compatibility.NewRuleRegistry(),
		health: observability.NewHealthChecker(""),
		logger: observability.NewDiscardLogger(),
		cfg:    cfg,
		server: cfg.Server,
		diff:   cfg.Diff,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.health.AddCheck("parser", checkParser)
	s.setupRoutes()
	s.handler = otelhttp.NewHandler(s.router, "graphql-inspector")
	return s, nil
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(
		observability.RecoveryMiddleware(s.logger),
		httputil.RequestIDMiddleware(s.logger),
		httputil.LoggingMiddleware,
		observability.HTTPMetricsMiddleware(s.metrics),
	)

	diffHandler := httputil.Chain(
		httputil.ContentTypeMiddleware,
		httputil.MaxBytesMiddleware(s.server.MaxBodyBytes),
	)(http.HandlerFunc(s.compareDiff))

	s.router.Handle("/api/v1/diff", diffHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/v1/rules", s.listRules).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/cache", s.cacheStats).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.health.Liveness).Methods(http.MethodGet)
	s.router.HandleFunc("/readyz", s.health.Readiness).Methods(http.MethodGet)
	if s.registry != nil {
		s.router.Handle("/metrics", observability.MetricsHandler(s.registry)).Methods(http.MethodGet)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// HTTPServer wraps the API in an *http.Server using the configured timeouts
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.server.Addr,
		Handler:      s,
		ReadTimeout:  s.server.ReadTimeout,
		WriteTimeout: s.server.WriteTimeout,
		IdleTimeout:  s.server.IdleTimeout,
	}
}

// checkParser makes sure the schema front end can parse a trivial document
func checkParser(ctx context.Context) error {
	_, err := schema.Parse(schema.Source{Name: "readyz", Body: "type Query { ok: Boolean }"})
	return err
}
