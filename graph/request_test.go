package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/msgraph-go/odata"
)

func TestDo_RequiresToken(t *testing.T) {
	var hit bool
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		hit = true
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	_, err := c.Do(context.Background(), http.MethodGet, server.URL+"/users", nil)

	// Fails before any I/O.
	assert.ErrorIs(t, err, ErrTokenRequired)
	assert.False(t, hit)
}

func TestDo_BuildsAuthHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	_, err := c.Do(context.Background(), http.MethodGet, server.URL+"/me", nil, WithToken("raw-token"))
	require.NoError(t, err)

	assert.Equal(t, "bearer raw-token", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	_, err = uuid.Parse(got.Get("client-request-id"))
	assert.NoError(t, err, "client-request-id should be a UUID")
}

func TestBearerValue_Passthrough(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"bare token gets prefixed", "abc123", "bearer abc123"},
		{"lower-case bearer unchanged", "bearer abc123", "bearer abc123"},
		{"mixed-case bearer unchanged", "Bearer abc123", "Bearer abc123"},
		{"upper-case bearer unchanged", "BEARER abc123", "BEARER abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bearerValue(tt.token))
		})
	}
}

func TestDo_CallerHeadersTakePrecedence(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	_, err := c.Do(context.Background(), http.MethodGet, server.URL+"/me", nil,
		WithToken("tok"),
		WithHeaders(map[string]string{
			"Content-Type": "text/plain",
			"Prefer":       "outlook.body-content-type=\"text\"",
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, "text/plain", got.Get("Content-Type"))
	assert.Equal(t, "outlook.body-content-type=\"text\"", got.Get("Prefer"))
	assert.Equal(t, "bearer tok", got.Get("Authorization"))
}

func TestDo_UnexpectedStatusRaisesTypedError(t *testing.T) {
	body := `{"error":{"code":"ResourceNotFound","message":"gone"}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("request-id", "req-1")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(body))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	_, err := c.Do(context.Background(), http.MethodGet, server.URL+"/users/nobody", nil, WithToken("tok"))

	require.ErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, body, string(apiErr.Body))
	assert.Equal(t, "req-1", apiErr.Header.Get("request-id"))
}

func TestDo_ExpectedStatusOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	resp, err := c.Do(context.Background(), http.MethodGet, server.URL+"/maybe", nil,
		WithToken("tok"),
		WithExpectedStatuses(http.StatusOK, http.StatusNotFound),
	)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDo_NonJSONPayloadStaysOpaque(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0x1, 0x2, 0x3})
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	resp, err := c.Do(context.Background(), http.MethodGet, server.URL+"/photo", nil, WithToken("tok"))

	require.NoError(t, err)
	assert.False(t, resp.IsJSON)
	assert.Equal(t, []byte{0x1, 0x2, 0x3}, resp.Body)
	assert.Error(t, resp.Decode(&struct{}{}))
}

func TestDo_AppendsQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	q := &odata.Query{}
	require.NoError(t, q.SetTop(50))

	c := New(WithBaseURL(server.URL))
	_, err := c.Do(context.Background(), http.MethodGet, server.URL+"/users", nil,
		WithToken("tok"), WithQuery(q))
	require.NoError(t, err)

	assert.Equal(t, "$top=50", gotQuery)
}

func TestDo_ZeroQueryAppendsNothing(t *testing.T) {
	var gotURI string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	_, err := c.Do(context.Background(), http.MethodGet, server.URL+"/users", nil,
		WithToken("tok"), WithQuery(&odata.Query{}))
	require.NoError(t, err)

	assert.Equal(t, "/users", gotURI)
}

func TestDo_RecordsRetryAfterOn429(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	_, err := c.Do(context.Background(), http.MethodGet, server.URL+"/users", nil, WithToken("tok"))

	require.ErrorIs(t, err, ErrThrottled)
	// The limiter backs off; the next request would not be allowed yet.
	assert.False(t, c.limiter.Allow())
}

func TestGetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/user-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"user-1","displayName":"Ada Lovelace","userPrincipalName":"ada@example.com"}`))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	user, err := c.GetUser(context.Background(), "user-1", WithToken("tok"))

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Ada Lovelace", user.DisplayName)
	assert.Equal(t, "ada@example.com", user.Email())
}
