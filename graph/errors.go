package graph

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds for Graph API responses.
var (
	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("graph: bad request")

	// ErrUnauthorized indicates the access token is invalid or expired.
	ErrUnauthorized = errors.New("graph: unauthorized")

	// ErrForbidden indicates the app lacks permission for the requested resource.
	ErrForbidden = errors.New("graph: forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("graph: not found")

	// ErrThrottled indicates the request was throttled by Microsoft Graph.
	ErrThrottled = errors.New("graph: throttled")

	// ErrServerError indicates a server-side error from Microsoft Graph.
	ErrServerError = errors.New("graph: server error")

	// ErrUnknown covers status codes outside the mapped set.
	ErrUnknown = errors.New("graph: unknown API error")
)

// Configuration errors. These are detected before any network I/O and are
// never retried.
var (
	// ErrTokenRequired indicates the token is not managed and no explicit
	// token was provided for the call.
	ErrTokenRequired = errors.New("graph: token is not managed, so it must be provided explicitly")

	// ErrAlreadyManaged indicates ManageToken was called on a client that
	// already manages its token.
	ErrAlreadyManaged = errors.New("graph: token is already managed")

	// ErrInvalidRefreshInterval indicates a refresh interval outside the
	// accepted [60s, 3600s] range.
	ErrInvalidRefreshInterval = errors.New("graph: refresh interval must be between 60 and 3600 seconds")
)

// statusErrors maps HTTP status codes to error kinds. Codes >= 500 map to
// ErrServerError; anything else unmapped maps to ErrUnknown.
var statusErrors = map[int]error{
	http.StatusBadRequest:      ErrBadRequest,
	http.StatusUnauthorized:    ErrUnauthorized,
	http.StatusForbidden:       ErrForbidden,
	http.StatusNotFound:        ErrNotFound,
	http.StatusTooManyRequests: ErrThrottled,
}

// APIError is returned when Graph answers with a status code outside the
// expected set for the call. It keeps the raw response body and headers
// for diagnostics and unwraps to one of the error kinds above, so callers
// can match with errors.Is.
type APIError struct {
	StatusCode int
	Body       []byte
	Header     http.Header

	kind error
}

// newAPIError classifies a status code into an error kind.
func newAPIError(statusCode int, body []byte, header http.Header) *APIError {
	kind, ok := statusErrors[statusCode]
	if !ok {
		if statusCode >= 500 {
			kind = ErrServerError
		} else {
			kind = ErrUnknown
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Body:       body,
		Header:     header,
		kind:       kind,
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.kind.Error(), e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.kind
}
