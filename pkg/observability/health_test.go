package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_Liveness(t *testing.T) {
	checker := NewHealthChecker("v1.2.3")
	checker.AddCheck("broken", func(ctx context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	checker.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, StatusOK, status.Status)
	assert.Equal(t, "v1.2.3", status.Version)
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: StatusOK,
			wantChecks: map[string]string{},
		},
		{
			name: "all passing",
			checks: map[string]CheckFunc{
				"parser": func(ctx context.Context) error { return nil },
			},
			wantCode:   http.StatusOK,
			wantStatus: StatusOK,
			wantChecks: map[string]string{"parser": StatusOK},
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"parser":      func(ctx context.Context) error { return nil },
				"interceptor": func(ctx context.Context) error { return errors.New("connection refused") },
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
			wantChecks: map[string]string{"parser": StatusOK, "interceptor": "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewHealthChecker("")
			for name, fn := range tt.checks {
				checker.AddCheck(name, fn)
			}

			rec := httptest.NewRecorder()
			checker.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.wantCode, rec.Code)

			var status HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			assert.Equal(t, tt.wantStatus, status.Status)
			if len(tt.wantChecks) == 0 {
				assert.Empty(t, status.Checks)
			} else {
				assert.Equal(t, tt.wantChecks, status.Checks)
			}
		})
	}
}
