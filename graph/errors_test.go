package graph

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       error
	}{
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"throttled", http.StatusTooManyRequests, ErrThrottled},
		{"internal server error", http.StatusInternalServerError, ErrServerError},
		{"bad gateway", http.StatusBadGateway, ErrServerError},
		{"service unavailable", http.StatusServiceUnavailable, ErrServerError},
		{"unmapped 4xx", http.StatusTeapot, ErrUnknown},
		{"unmapped 3xx", http.StatusFound, ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError(tt.statusCode, nil, nil)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.statusCode, err.StatusCode)
		})
	}
}

func TestAPIError_CarriesResponseContext(t *testing.T) {
	header := http.Header{}
	header.Set("request-id", "abc-123")
	body := []byte(`{"error":{"code":"ResourceNotFound"}}`)

	err := newAPIError(http.StatusNotFound, body, header)

	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, body, err.Body)
	assert.Equal(t, "abc-123", err.Header.Get("request-id"))
	assert.Contains(t, err.Error(), "404")
}
