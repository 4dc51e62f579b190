package interceptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameron-headspace/graphql-inspector/pkg/check"
	"github.com/cameron-headspace/graphql-inspector/pkg/compatibility"
)

func sampleChanges() []compatibility.Change {
	return []compatibility.Change{
		compatibility.NewChangeBuilder(compatibility.FieldRemoved).
			WithPath("Post.modifiedAt").
			WithMessage("Field 'modifiedAt' was removed from object type 'Post'").
			WithCriticality(compatibility.Breaking, "Removing an element from the schema breaks clients.").
			Build(),
	}
}

func TestHTTPInterceptor_DowngradesChanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var payload Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Changes, 1)
		assert.Equal(t, "Post.modifiedAt", payload.Changes[0].Path)

		for i := range payload.Changes {
			payload.Changes[i].Criticality.Level = compatibility.NonBreaking
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"changes": payload.Changes})
	}))
	defer server.Close()

	result, err := NewHTTPInterceptor(server.URL).Intercept(context.Background(), sampleChanges())
	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, compatibility.NonBreaking, result.Changes[0].Criticality.Level)
	assert.Empty(t, result.Conclusion)
}

func TestHTTPInterceptor_Responses(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		wantErr        bool
		wantChanges    []compatibility.Change
		wantConclusion check.Conclusion
	}{
		{
			name:           "conclusion override",
			status:         http.StatusOK,
			body:           `{"conclusion":"neutral"}`,
			wantConclusion: check.Neutral,
		},
		{
			name:        "explicit empty changes",
			status:      http.StatusOK,
			body:        `{"changes":[]}`,
			wantChanges: []compatibility.Change{},
		},
		{
			name:   "empty object",
			status: http.StatusOK,
			body:   `{}`,
		},
		{
			name:        "unknown level passes through",
			status:      http.StatusOK,
			body:        `{"changes":[{"type":"FIELD_REMOVED","criticality":{"level":"IGNORED"},"message":"m","path":"A.b"}]}`,
			wantChanges: []compatibility.Change{{Type: compatibility.FieldRemoved, Criticality: compatibility.Criticality{Level: "IGNORED"}, Message: "m", Path: "A.b"}},
		},
		{name: "invalid conclusion", status: http.StatusOK, body: `{"conclusion":"maybe"}`, wantErr: true},
		{name: "malformed json", status: http.StatusOK, body: `{"changes":`, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: true},
		{name: "redirect status", status: http.StatusNotModified, body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result, err := NewHTTPInterceptor(server.URL).Intercept(context.Background(), sampleChanges())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanges, result.Changes)
			assert.Equal(t, tt.wantConclusion, result.Conclusion)
		})
	}
}

func TestHTTPInterceptor_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"conclusion":"success","padding":"`))
		w.Write([]byte(strings.Repeat("x", MaxResponseBytes)))
		w.Write([]byte(`"}`))
	}))
	defer server.Close()

	_, err := NewHTTPInterceptor(server.URL).Intercept(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestHTTPInterceptor_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	_, err := NewHTTPInterceptor(server.URL, WithTimeout(50*time.Millisecond)).
		Intercept(context.Background(), sampleChanges())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHTTPInterceptor_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPInterceptor(url).Intercept(context.Background(), sampleChanges())
	assert.Error(t, err)
}

func TestHTTPInterceptor_SendsEmptyListForNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.JSONEq(t, `[]`, string(raw["changes"]))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := NewHTTPInterceptor(server.URL).Intercept(context.Background(), nil)
	require.NoError(t, err)
}

func TestFunc(t *testing.T) {
	var called bool
	f := Func(func(ctx context.Context, changes []compatibility.Change) (*Result, error) {
		called = true
		return &Result{Conclusion: check.Success}, nil
	})

	result, err := f.Intercept(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, check.Success, result.Conclusion)

	result, err = Noop.Intercept(context.Background(), sampleChanges())
	require.NoError(t, err)
	assert.Nil(t, result.Changes)
	assert.Empty(t, result.Conclusion)
}
