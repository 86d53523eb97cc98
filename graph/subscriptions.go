package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ResourceTemplate is a subscribable resource path parameterised by a
// user ID.
type ResourceTemplate string

// Subscription resource templates.
const (
	// ResourceUserMessages watches a user's mailbox.
	ResourceUserMessages ResourceTemplate = "users/%s/messages"
	// ResourceUserEvents watches a user's calendar events.
	ResourceUserEvents ResourceTemplate = "users/%s/events"
)

// ForUser instantiates the template for a specific user.
func (t ResourceTemplate) ForUser(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("graph: user id must be specified with resource template %q", string(t))
	}
	return fmt.Sprintf(string(t), userID), nil
}

// defaultClientState is sent when the caller does not pick a client
// state of their own.
const defaultClientState = "secretClientValue"

// SubscriptionRequest describes a change notification subscription to
// create.
type SubscriptionRequest struct {
	// ChangeType is a comma-separated set of "created", "updated", "deleted".
	ChangeType string `json:"changeType"`
	// NotificationURL receives the change notifications; must be HTTPS.
	NotificationURL string `json:"notificationUrl"`
	// Resource is the watched resource path, typically built from a
	// ResourceTemplate.
	Resource string `json:"resource"`
	// ExpirationDateTime is filled in by CreateSubscription.
	ExpirationDateTime string `json:"expirationDateTime"`
	// ClientState is echoed back in notifications for validation;
	// defaulted when empty.
	ClientState string `json:"clientState"`
	// LatestSupportedTLSVersion is optional, e.g. "v1_2".
	LatestSupportedTLSVersion string `json:"latestSupportedTlsVersion,omitempty"`
}

// Subscription is a change notification subscription resource.
type Subscription struct {
	ID                        string `json:"id"`
	ChangeType                string `json:"changeType"`
	NotificationURL           string `json:"notificationUrl"`
	Resource                  string `json:"resource"`
	ExpirationDateTime        string `json:"expirationDateTime"`
	ClientState               string `json:"clientState"`
	ApplicationID             string `json:"applicationId"`
	CreatorID                 string `json:"creatorId"`
	LatestSupportedTLSVersion string `json:"latestSupportedTlsVersion"`
}

// ExpirationTime formats a subscription expiry the given number of
// minutes from now, in the exact fixed-width format Graph expects:
// six fractional digits plus a literal trailing "0Z". The format is
// reproduced bit-for-bit; do not replace it with RFC 3339.
func ExpirationTime(minutesToExpiration int) string {
	t := time.Now().UTC().Add(time.Duration(minutesToExpiration) * time.Minute)
	return t.Format("2006-01-02T15:04:05.000000") + "0Z"
}

// CreateSubscription creates a change notification subscription expiring
// minutesToExpiration minutes from now. An empty ClientState is replaced
// with a fixed default so notifications can always be validated.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest, minutesToExpiration int, opts ...CallOption) (*Subscription, error) {
	if req.ChangeType == "" {
		return nil, errors.New("graph: subscription change type must not be empty")
	}
	if req.NotificationURL == "" {
		return nil, errors.New("graph: subscription notification URL must not be empty")
	}
	if req.Resource == "" {
		return nil, errors.New("graph: subscription resource must not be empty")
	}

	req.ExpirationDateTime = ExpirationTime(minutesToExpiration)
	if req.ClientState == "" {
		req.ClientState = defaultClientState
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("graph: encode subscription request: %w", err)
	}

	o := newCallOptions(opts)
	resp, err := c.call(ctx, http.MethodPost, c.baseURL+"/subscriptions", bytes.NewReader(body), o)
	if err != nil {
		return nil, err
	}

	var sub Subscription
	if err := resp.Decode(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// RenewSubscription pushes a subscription's expiry to minutesToExpiration
// minutes from now.
func (c *Client) RenewSubscription(ctx context.Context, subscriptionID string, minutesToExpiration int, opts ...CallOption) (*Subscription, error) {
	body, err := json.Marshal(map[string]string{
		"expirationDateTime": ExpirationTime(minutesToExpiration),
	})
	if err != nil {
		return nil, fmt.Errorf("graph: encode renewal request: %w", err)
	}

	o := newCallOptions(opts)
	url := fmt.Sprintf("%s/subscriptions/%s", c.baseURL, subscriptionID)
	resp, err := c.call(ctx, http.MethodPatch, url, bytes.NewReader(body), o)
	if err != nil {
		return nil, err
	}

	var sub Subscription
	if err := resp.Decode(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// DeleteSubscription removes a subscription. Graph answers 204.
func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID string, opts ...CallOption) error {
	o := newCallOptions(opts)
	url := fmt.Sprintf("%s/subscriptions/%s", c.baseURL, subscriptionID)
	_, err := c.call(ctx, http.MethodDelete, url, nil, o)
	return err
}
