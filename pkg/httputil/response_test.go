package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteJSON(w, http.StatusOK, map[string]string{"conclusion": "success"})

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"conclusion":"success"}`, w.Body.String())
}

func TestWriteErrors(t *testing.T) {
	tests := []struct {
		name    string
		write   func(w http.ResponseWriter)
		code    int
		message string
	}{
		{
			name:    "error",
			write:   func(w http.ResponseWriter) { WriteError(w, http.StatusConflict, errors.New("test error")) },
			code:    http.StatusConflict,
			message: "test error",
		},
		{
			name:    "bad request",
			write:   func(w http.ResponseWriter) { WriteBadRequest(w, "old is required") },
			code:    http.StatusBadRequest,
			message: "old is required",
		},
		{
			name:    "internal",
			write:   func(w http.ResponseWriter) { WriteInternalError(w, errors.New("boom")) },
			code:    http.StatusInternalServerError,
			message: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.code, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
		})
	}
}
