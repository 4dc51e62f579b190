package interceptor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/cameron-headspace/graphql-inspector/pkg/check"
	"github.com/cameron-headspace/graphql-inspector/pkg/compatibility"
)

var tracer = otel.Tracer("graphql-inspector/interceptor")

const (
	// DefaultTimeout bounds a single interceptor call
	DefaultTimeout = 10 * time.Second
	// MaxResponseBytes is the largest response body accepted
	MaxResponseBytes = 10 << 20
)

// Payload is the request body sent to the interceptor
type Payload struct {
	Changes []compatibility.Change `json:"changes"`
}

// Response is the body an interceptor replies with. Both fields are optional.
type Response struct {
	Changes    *[]compatibility.Change `json:"changes,omitempty"`
	Conclusion *string                 `json:"conclusion,omitempty"`
}

// HTTPInterceptor posts changes to a URL and applies the reply
type HTTPInterceptor struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// HTTPOption configures an HTTPInterceptor
type HTTPOption func(*HTTPInterceptor)

// WithTimeout sets the per-call timeout. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(h *HTTPInterceptor) {
		if timeout > 0 {
			h.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTPInterceptor) {
		h.client = client
	}
}

// NewHTTPInterceptor creates an interceptor that calls url
func NewHTTPInterceptor(url string, opts ...HTTPOption) *HTTPInterceptor {
	h := &HTTPInterceptor{
		url:     url,
		timeout: DefaultTimeout,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Intercept sends the changes and decodes the reply
func (h *HTTPInterceptor) Intercept(ctx context.Context, changes []compatibility.Change) (*Result, error) {
	ctx, span := tracer.Start(ctx, "interceptor.Intercept")
	defer span.End()
	span.SetAttributes(
		attribute.String("interceptor.url", h.url),
		attribute.Int("interceptor.changes", len(changes)),
	)

	result, err := h.do(ctx, changes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "interceptor call failed")
		return nil, err
	}
	return result, nil
}

func (h *HTTPInterceptor) do(ctx context.Context, changes []compatibility.Change) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if changes == nil {
		changes = []compatibility.Change{}
	}
	payload, err := json.Marshal(Payload{Changes: changes})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal changes: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call interceptor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("interceptor returned non-2xx status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read interceptor response: %w", err)
	}
	if len(body) > MaxResponseBytes {
		return nil, fmt.Errorf("interceptor response exceeds %d bytes", MaxResponseBytes)
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode interceptor response: %w", err)
	}

	result := &Result{}
	if decoded.Changes != nil {
		result.Changes = *decoded.Changes
		if result.Changes == nil {
			result.Changes = []compatibility.Change{}
		}
	}
	if decoded.Conclusion != nil {
		conclusion, err := check.ParseConclusion(*decoded.Conclusion)
		if err != nil {
			return nil, fmt.Errorf("interceptor returned %w", err)
		}
		result.Conclusion = conclusion
	}
	return result, nil
}
