package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// graphDefaultScope requests all application permissions granted to the
// app registration.
const graphDefaultScope = "https://graph.microsoft.com/.default"

// refreshTimeout bounds a single background token acquisition.
const refreshTimeout = 30 * time.Second

// Credentials identify an Azure app registration with consent granted in
// the target tenant.
type Credentials struct {
	// AppID is the application (client) ID.
	AppID string
	// AppSecret is the client secret.
	AppSecret string
	// TenantID is the directory (tenant) whose resources are accessed.
	TenantID string
}

// TokenResponse is the identity platform's answer to a client-credentials
// token request.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AcquireToken performs a single client-credentials token request. It
// never touches the client's stored token; callers decide what to do with
// the result. The returned status code is the token endpoint's answer,
// also populated when the error is an *APIError.
func (c *Client) AcquireToken(ctx context.Context, creds Credentials) (*TokenResponse, int, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", graphDefaultScope)
	form.Set("client_id", creds.AppID)
	form.Set("client_secret", creds.AppSecret)

	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.authorityURL, creds.TenantID)
	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(ctx, http.MethodPost, tokenURL, header, strings.NewReader(form.Encode()), nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr.StatusCode, err
		}
		return nil, 0, err
	}

	var tr TokenResponse
	if err := resp.Decode(&tr); err != nil {
		return nil, resp.StatusCode, err
	}
	return &tr, resp.StatusCode, nil
}

// ManageToken enables managed mode: it acquires a token synchronously,
// stores it, and starts a background task that replaces it every refresh
// interval. Calling it on an already managed client fails with
// ErrAlreadyManaged. If the first acquisition fails, managed mode is not
// entered and nothing is stored.
func (c *Client) ManageToken(ctx context.Context, creds Credentials) error {
	c.mu.Lock()
	if c.managed {
		c.mu.Unlock()
		return ErrAlreadyManaged
	}
	interval := c.refreshInterval
	c.mu.Unlock()

	if err := c.refreshToken(ctx, creds); err != nil {
		c.logger.Error("initial token acquisition failed", "error", err)
		return fmt.Errorf("graph: manage token: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.managed {
		// Another caller won the race between our acquisition and now.
		return ErrAlreadyManaged
	}
	c.managed = true
	c.stopRefresh = make(chan struct{})
	c.refreshDone = make(chan struct{})
	go c.refreshLoop(creds, interval, c.stopRefresh, c.refreshDone)

	c.logger.Info("token management enabled", "interval", interval)
	return nil
}

// refreshLoop re-acquires the token on every tick until the client is
// closed. A failed tick keeps the previous token and the schedule alive.
func (c *Client) refreshLoop(creds Credentials, interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			err := c.refreshToken(ctx, creds)
			cancel()
			if err != nil {
				c.logger.Error("token refresh failed, keeping previous token", "error", err)
				continue
			}
			c.logger.Info("token has been refreshed")
		}
	}
}

// refreshToken acquires a new token and replaces the stored one.
func (c *Client) refreshToken(ctx context.Context, creds Credentials) error {
	tr, _, err := c.AcquireToken(ctx, creds)
	if err != nil {
		return err
	}
	if tr.AccessToken == "" {
		return errors.New("graph: token response has no access_token")
	}
	c.token.Store(tr.AccessToken)
	return nil
}

// Token returns the managed bearer token, if one is available.
func (c *Client) Token() (string, bool) {
	token, _ := c.token.Load().(string)
	return token, token != ""
}

// IsManaged reports whether the client manages its own token.
func (c *Client) IsManaged() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managed
}

// TokenRefreshInterval returns the configured refresh interval.
func (c *Client) TokenRefreshInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshInterval
}

// SetTokenRefreshInterval changes the refresh interval. The interval must
// be within [60s, 3600s] and can only be changed before ManageToken.
func (c *Client) SetTokenRefreshInterval(interval time.Duration) error {
	if interval < minRefreshInterval || interval > maxRefreshInterval {
		return fmt.Errorf("%w, got %s", ErrInvalidRefreshInterval, interval)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.managed {
		return ErrAlreadyManaged
	}
	c.refreshInterval = interval
	return nil
}
