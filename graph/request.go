package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/msgraph-go/odata"
)

// defaultExpectedStatuses are the statuses treated as success when a call
// does not override them.
var defaultExpectedStatuses = []int{
	http.StatusOK,
	http.StatusNoContent,
	http.StatusCreated,
}

// CallOption customises a single Graph call.
type CallOption func(*callOptions)

type callOptions struct {
	token    string
	headers  map[string]string
	expected []int
	query    *odata.Query
}

// WithToken supplies an explicit bearer token for this call instead of
// the managed one. Values already prefixed with "bearer" (any case) are
// sent unchanged.
func WithToken(token string) CallOption {
	return func(o *callOptions) { o.token = token }
}

// WithHeaders adds extra request headers. They take precedence over the
// headers the client sets itself.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *callOptions) { o.headers = headers }
}

// WithExpectedStatuses replaces the set of status codes treated as
// success for this call.
func WithExpectedStatuses(statuses ...int) CallOption {
	return func(o *callOptions) { o.expected = statuses }
}

// WithQuery appends an OData query fragment to the request URL.
func WithQuery(q *odata.Query) CallOption {
	return func(o *callOptions) { o.query = q }
}

func newCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Response is the raw outcome of a Graph call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// IsJSON reports whether the response content type was JSON, in which
	// case Body can be decoded; otherwise Body is an opaque byte payload.
	IsJSON bool
}

// Decode unmarshals a JSON response body into v.
func (r *Response) Decode(v any) error {
	if !r.IsJSON {
		return fmt.Errorf("graph: response is not JSON (content type %q)", r.Header.Get("Content-Type"))
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("graph: decode response: %w", err)
	}
	return nil
}

// Do executes an authenticated Graph call against url. The bearer token
// comes from WithToken or from managed mode; without either the call
// fails with ErrTokenRequired before any I/O. An unexpected status code
// yields an *APIError carrying the response body and headers.
func (c *Client) Do(ctx context.Context, method, url string, body io.Reader, opts ...CallOption) (*Response, error) {
	o := newCallOptions(opts)
	return c.call(ctx, method, appendQuery(url, o.query), body, o)
}

// call is Do with pre-parsed options; endpoint methods build their own
// URLs and reuse it.
func (c *Client) call(ctx context.Context, method, url string, body io.Reader, o callOptions) (*Response, error) {
	header, err := c.authHeader(o)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, method, url, header, body, o.expected)
}

// authHeader builds the headers for an authenticated call. This is the
// one place the token requirement is enforced; every endpoint method goes
// through it.
func (c *Client) authHeader(o callOptions) (http.Header, error) {
	token := o.token
	if token == "" {
		stored, ok := c.Token()
		if !ok {
			return nil, ErrTokenRequired
		}
		token = stored
	}

	header := http.Header{}
	header.Set("Authorization", bearerValue(token))
	header.Set("Content-Type", "application/json")
	header.Set("client-request-id", uuid.NewString())
	for k, v := range o.headers {
		header.Set(k, v)
	}
	return header, nil
}

// bearerValue normalises a token into an authorization header value.
func bearerValue(token string) string {
	if strings.HasPrefix(strings.ToLower(token), "bearer") {
		return token
	}
	return "bearer " + token
}

// do sends one request and classifies the response. No retries happen
// here; transient failures surface to the caller.
func (c *Client) do(ctx context.Context, method, url string, header http.Header, body io.Reader, expected []int) (*Response, error) {
	if len(expected) == 0 {
		expected = defaultExpectedStatuses
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("graph: create request: %w", err)
	}
	if header != nil {
		req.Header = header
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("graph: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests && c.limiter != nil {
		c.limiter.RecordRetryAfter(parseRetryAfter(resp.Header))
	}

	res := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
		IsJSON:     strings.Contains(resp.Header.Get("Content-Type"), "application/json"),
	}

	for _, status := range expected {
		if resp.StatusCode == status {
			return res, nil
		}
	}
	return nil, newAPIError(resp.StatusCode, raw, resp.Header)
}
