// Package httputil provides HTTP utilities for JSON request and response handling.
//
// # Response Helpers
//
//	httputil.WriteJSON(w, http.StatusOK, result)
//	httputil.WriteBadRequest(w, "old is required")
//
// Every error body has the shape {"error": "..."}.
//
// # Request Parsing
//
//	var req DiffRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware(logger),
//		httputil.LoggingMiddleware,
//		httputil.MaxBytesMiddleware(10<<20),
//	)
package httputil
