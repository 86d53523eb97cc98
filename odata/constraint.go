package odata

import (
	"errors"
	"fmt"
)

// Operator is a comparison operator usable in a filter constraint.
type Operator int

// Supported constraint operators.
const (
	Equals Operator = iota + 1
	NotEquals
	LessThan
	GreaterThan
	LessOrEqual
	GreaterOrEqual
	StartsWith
	EndsWith
)

// operatorFormats maps each operator to its rendering function. Adding an
// operator means adding one entry here.
var operatorFormats = map[Operator]func(attribute, value string) string{
	Equals:         func(a, v string) string { return fmt.Sprintf("%s eq %s", a, v) },
	NotEquals:      func(a, v string) string { return fmt.Sprintf("%s ne %s", a, v) },
	LessThan:       func(a, v string) string { return fmt.Sprintf("%s lt %s", a, v) },
	GreaterThan:    func(a, v string) string { return fmt.Sprintf("%s gt %s", a, v) },
	LessOrEqual:    func(a, v string) string { return fmt.Sprintf("%s le %s", a, v) },
	GreaterOrEqual: func(a, v string) string { return fmt.Sprintf("%s ge %s", a, v) },
	StartsWith:     func(a, v string) string { return fmt.Sprintf("startsWith(%s, %s)", a, v) },
	EndsWith:       func(a, v string) string { return fmt.Sprintf("endsWith(%s, %s)", a, v) },
}

// Connector joins the constraints of a filter.
type Connector int

// Supported logical connectors.
const (
	And Connector = iota + 1
	Or
)

// String renders the connector as it appears in a $filter expression.
func (c Connector) String() string {
	switch c {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return ""
	}
}

// ErrUnknownOperator is returned when a constraint is built with an
// operator outside the supported set.
var ErrUnknownOperator = errors.New("odata: unknown operator")

// ErrUnknownConnector is returned when a filter is given a connector
// outside the supported set.
var ErrUnknownConnector = errors.New("odata: unknown logical connector")

// Constraint is a single comparison predicate in a filter expression.
// Values are substituted literally; quoting and escaping are the caller's
// responsibility.
type Constraint struct {
	attribute string
	operator  Operator
	value     string
}

// NewConstraint builds a constraint, validating the attribute and operator.
func NewConstraint(attribute string, operator Operator, value string) (Constraint, error) {
	if attribute == "" {
		return Constraint{}, errors.New("odata: constraint attribute must not be empty")
	}
	if _, ok := operatorFormats[operator]; !ok {
		return Constraint{}, fmt.Errorf("%w: %d", ErrUnknownOperator, operator)
	}
	return Constraint{attribute: attribute, operator: operator, value: value}, nil
}

// Attribute returns the attribute the constraint compares.
func (c Constraint) Attribute() string { return c.attribute }

// Operator returns the constraint's comparison operator.
func (c Constraint) Operator() Operator { return c.operator }

// Value returns the literal the attribute is compared against.
func (c Constraint) Value() string { return c.value }

// String renders the constraint through its operator template.
func (c Constraint) String() string {
	format, ok := operatorFormats[c.operator]
	if !ok {
		return ""
	}
	return format(c.attribute, c.value)
}
