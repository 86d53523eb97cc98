package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expirationFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}0Z$`)

func TestExpirationTime_Format(t *testing.T) {
	got := ExpirationTime(60)

	// Six fractional digits plus the literal trailing "0Z", fixed width.
	assert.Regexp(t, expirationFormat, got)
	assert.Len(t, got, 28)

	// Parses back (ignoring the trailing literal) to roughly now+60m UTC.
	parsed, err := time.Parse("2006-01-02T15:04:05.000000", got[:26])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(60*time.Minute), parsed, time.Minute)
}

func TestResourceTemplate_ForUser(t *testing.T) {
	resource, err := ResourceUserMessages.ForUser("user-1")
	require.NoError(t, err)
	assert.Equal(t, "users/user-1/messages", resource)

	resource, err = ResourceUserEvents.ForUser("user-1")
	require.NoError(t, err)
	assert.Equal(t, "users/user-1/events", resource)

	_, err = ResourceUserMessages.ForUser("")
	assert.Error(t, err)
}

func TestCreateSubscription(t *testing.T) {
	var got SubscriptionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/subscriptions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Subscription{
			ID:                 "sub-1",
			ChangeType:         got.ChangeType,
			Resource:           got.Resource,
			ExpirationDateTime: got.ExpirationDateTime,
			ClientState:        got.ClientState,
		})
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	resource, err := ResourceUserMessages.ForUser("user-1")
	require.NoError(t, err)

	sub, err := c.CreateSubscription(context.Background(), SubscriptionRequest{
		ChangeType:      "created,updated",
		NotificationURL: "https://example.com/hook",
		Resource:        resource,
	}, 30, WithToken("tok"))

	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.ID)
	assert.Equal(t, "users/user-1/messages", got.Resource)
	assert.Regexp(t, expirationFormat, got.ExpirationDateTime)
	// Empty client state is defaulted so notifications can be validated.
	assert.Equal(t, "secretClientValue", got.ClientState)
}

func TestCreateSubscription_Validation(t *testing.T) {
	c := New()

	_, err := c.CreateSubscription(context.Background(), SubscriptionRequest{
		NotificationURL: "https://example.com/hook",
		Resource:        "users/u/messages",
	}, 30, WithToken("tok"))
	assert.Error(t, err)

	_, err = c.CreateSubscription(context.Background(), SubscriptionRequest{
		ChangeType: "created",
		Resource:   "users/u/messages",
	}, 30, WithToken("tok"))
	assert.Error(t, err)

	_, err = c.CreateSubscription(context.Background(), SubscriptionRequest{
		ChangeType:      "created",
		NotificationURL: "https://example.com/hook",
	}, 30, WithToken("tok"))
	assert.Error(t, err)
}

func TestRenewSubscription(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/subscriptions/sub-1", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Subscription{
			ID:                 "sub-1",
			ExpirationDateTime: got["expirationDateTime"],
		})
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	sub, err := c.RenewSubscription(context.Background(), "sub-1", 120, WithToken("tok"))

	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.ID)
	assert.Regexp(t, expirationFormat, got["expirationDateTime"])
}

func TestDeleteSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/subscriptions/sub-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	err := c.DeleteSubscription(context.Background(), "sub-1", WithToken("tok"))

	assert.NoError(t, err)
}

func TestDeleteSubscription_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"ResourceNotFound"}}`))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	err := c.DeleteSubscription(context.Background(), "missing", WithToken("tok"))

	assert.ErrorIs(t, err, ErrNotFound)
}
