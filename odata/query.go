package odata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EmptyQuery is the sentinel rendered by a query with no options set. It
// lets callers (and test output) tell "no query configured" apart from an
// empty string; nothing should be appended to a URL in either case.
const EmptyQuery = "EMPTY OPEN DATA QUERY"

// Query collects OData system query options and serialises them into a
// URL fragment. The zero value is ready to use; options are applied
// through the setters, which validate their input immediately.
type Query struct {
	count  *bool
	expand string
	filter *Filter
	sel    []string
	top    int
}

// SetCount requests (or suppresses) the total count of matching
// resources. Once set, $count is serialised even when false.
func (q *Query) SetCount(count bool) {
	q.count = &count
}

// SetExpand requests related resources to be expanded inline.
func (q *Query) SetExpand(expand string) error {
	if expand == "" {
		return errors.New("odata: expand must not be empty")
	}
	q.expand = expand
	return nil
}

// SetFilter attaches a filter. The filter must carry at least one
// constraint and a valid connector.
func (q *Query) SetFilter(filter *Filter) error {
	if filter == nil {
		return errors.New("odata: filter must not be nil")
	}
	if len(filter.constraints) == 0 {
		return errors.New("odata: filter needs at least one constraint")
	}
	if filter.connector != And && filter.connector != Or {
		return fmt.Errorf("%w: %d", ErrUnknownConnector, filter.connector)
	}
	q.filter = filter
	return nil
}

// SetSelect limits the returned properties to the given field names.
func (q *Query) SetSelect(fields []string) error {
	if len(fields) == 0 {
		return errors.New("odata: select needs at least one field")
	}
	for _, f := range fields {
		if f == "" {
			return errors.New("odata: select fields must not be empty")
		}
	}
	q.sel = fields
	return nil
}

// SetTop sets the page size of results.
func (q *Query) SetTop(top int) error {
	if top <= 0 {
		return fmt.Errorf("odata: top must be positive, got %d", top)
	}
	q.top = top
	return nil
}

// Count reports the requested $count value and whether it was set.
func (q *Query) Count() (bool, bool) {
	if q.count == nil {
		return false, false
	}
	return *q.count, true
}

// Expand returns the configured $expand value, if any.
func (q *Query) Expand() string { return q.expand }

// Filter returns the configured filter, if any.
func (q *Query) Filter() *Filter { return q.filter }

// Select returns the configured $select fields in order.
func (q *Query) Select() []string { return q.sel }

// Top returns the configured page size, zero when unset.
func (q *Query) Top() int { return q.top }

// IsZero reports whether no query option has been set.
func (q *Query) IsZero() bool {
	return q.count == nil && q.expand == "" && q.filter == nil &&
		len(q.sel) == 0 && q.top == 0
}

// String serialises the query as a fragment starting with "?", options in
// the fixed order count, expand, filter, select, top. A zero query renders
// the EmptyQuery sentinel instead.
func (q *Query) String() string {
	if q.IsZero() {
		return EmptyQuery
	}
	parts := make([]string, 0, 5)
	if q.count != nil {
		parts = append(parts, "$count="+strconv.FormatBool(*q.count))
	}
	if q.expand != "" {
		parts = append(parts, "$expand="+strings.ToLower(q.expand))
	}
	if q.filter != nil {
		parts = append(parts, "$filter="+q.filter.String())
	}
	if len(q.sel) > 0 {
		parts = append(parts, "$select="+strings.Join(q.sel, ","))
	}
	if q.top > 0 {
		parts = append(parts, "$top="+strconv.Itoa(q.top))
	}
	return "?" + strings.Join(parts, "&")
}
