// Package observability provides structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// # Structured Logging
//
//	logger := observability.NewLogger("info", os.Stderr)
//	logger.WithField("path", "schema.graphql").Info("diff finished")
//
// Request scoped loggers carry the request ID and the active trace:
//
//	ctx = observability.WithLogger(observability.WithRequestID(ctx, id), logger)
//	observability.FromContext(ctx).Warn("interceptor failed")
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.ObserveDiff("failure", []string{"BREAKING"}, elapsed)
//
// All record methods accept a nil *Metrics.
//
// # OpenTelemetry
//
//	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
//		Enabled:     true,
//		Endpoint:    "otel-collector:4317",
//		ServiceName: "graphql-inspector",
//		Insecure:    true,
//	}, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/api: HTTP middleware wiring
package observability
