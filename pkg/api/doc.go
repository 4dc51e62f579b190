// Package api provides the HTTP API for diffing GraphQL schemas.
//
// # Endpoints
//
//   - POST /api/v1/diff: diff two SDL documents
//   - GET /api/v1/rules: list post-processing rules
//   - GET /api/v1/cache: snapshot cache statistics
//   - GET /healthz, GET /readyz: liveness and readiness checks
//   - GET /metrics: Prometheus metrics, when enabled
//
// A diff request looks like:
//
//	{
//	  "path": "schema.graphql",
//	  "old": "type Query { a: Int }",
//	  "new": "type Query { a: Int! }",
//	  "interceptor": "https://ci.example.com/intercept",
//	  "fail_on_dangerous": true,
//	  "rules": ["ignoreDescriptionChanges"]
//	}
//
// and is answered with the diff result: changes, annotations and the
// conclusion. A document that does not parse answers 400.
//
// # Usage
//
//	server, err := api.NewServer(cfg, api.WithLogger(logger), api.WithMetrics(registry))
//	if err != nil {
//		return err
//	}
//	httpServer := server.HTTPServer()
//	go httpServer.ListenAndServe()
package api
