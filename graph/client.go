package graph

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/msgraph-go/odata"
)

// Microsoft Graph API base URL.
const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Microsoft identity platform base URL, tenant appended per request.
const defaultAuthorityURL = "https://login.microsoftonline.com"

// Refresh interval bounds and default. The default leaves a five minute
// margin before the one hour server-side token expiry.
const (
	minRefreshInterval     = 60 * time.Second
	maxRefreshInterval     = 3600 * time.Second
	defaultRefreshInterval = 3300 * time.Second
)

// Client is a Microsoft Graph API client. A single Client is safe for
// concurrent use; all calls share one underlying HTTP client.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	authorityURL string
	logger       *slog.Logger
	limiter      *RateLimiter

	// token is the managed bearer token. It is written by ManageToken and
	// the refresh loop, and read lock-free by every call that does not
	// carry an explicit token. A read concurrent with a scheduled
	// replacement may observe either value; both are valid, since the
	// refresh interval precedes server-side expiry.
	token atomic.Value

	mu              sync.Mutex
	managed         bool
	refreshInterval time.Duration
	stopRefresh     chan struct{}
	refreshDone     chan struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for all requests. Timeouts
// and transport-level retries belong to this client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the Graph API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithAuthorityURL overrides the identity platform base URL used for
// token acquisition.
func WithAuthorityURL(authorityURL string) Option {
	return func(c *Client) { c.authorityURL = authorityURL }
}

// WithLogger attaches a logger. The client is silent without one.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRateLimit replaces the default rate limit configuration.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) { c.limiter = NewRateLimiter(cfg) }
}

// WithoutRateLimiting disables client-side request pacing.
func WithoutRateLimiting() Option {
	return func(c *Client) { c.limiter = nil }
}

// New creates a Graph client with app-only authentication.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:      &http.Client{Timeout: 60 * time.Second},
		baseURL:         defaultBaseURL,
		authorityURL:    defaultAuthorityURL,
		logger:          slog.New(slog.DiscardHandler),
		limiter:         NewRateLimiter(DefaultRateLimit),
		refreshInterval: defaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close stops the background token refresh, if running. The stored token
// stays usable until server-side expiry; managed mode is not re-enterable.
func (c *Client) Close() error {
	c.mu.Lock()
	stop, done := c.stopRefresh, c.refreshDone
	c.stopRefresh = nil
	c.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	return nil
}

// appendQuery appends a serialised OData query to a URL. Zero queries
// append nothing.
func appendQuery(url string, q *odata.Query) string {
	if q == nil || q.IsZero() {
		return url
	}
	return url + q.String()
}
