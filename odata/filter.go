package odata

import (
	"errors"
	"fmt"
	"strings"
)

// Filter is an ordered set of constraints combined by exactly one logical
// connector applied uniformly across all of them.
type Filter struct {
	constraints []Constraint
	connector   Connector
}

// NewFilter builds a filter from a connector and at least one constraint.
func NewFilter(connector Connector, constraints ...Constraint) (*Filter, error) {
	f := &Filter{}
	if err := f.SetConnector(connector); err != nil {
		return nil, err
	}
	if err := f.SetConstraints(constraints); err != nil {
		return nil, err
	}
	return f, nil
}

// SetConstraints replaces the filter's constraints. The list must not be
// empty and every constraint must have been built through NewConstraint.
func (f *Filter) SetConstraints(constraints []Constraint) error {
	if len(constraints) == 0 {
		return errors.New("odata: filter needs at least one constraint")
	}
	for _, c := range constraints {
		if c.attribute == "" {
			return errors.New("odata: filter constraint is missing an attribute")
		}
		if _, ok := operatorFormats[c.operator]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownOperator, c.operator)
		}
	}
	f.constraints = constraints
	return nil
}

// SetConnector replaces the filter's logical connector.
func (f *Filter) SetConnector(connector Connector) error {
	if connector != And && connector != Or {
		return fmt.Errorf("%w: %d", ErrUnknownConnector, connector)
	}
	f.connector = connector
	return nil
}

// Constraints returns the filter's constraints in order.
func (f *Filter) Constraints() []Constraint { return f.constraints }

// Connector returns the filter's logical connector.
func (f *Filter) Connector() Connector { return f.connector }

// String renders the filter as the value of a $filter option.
func (f *Filter) String() string {
	parts := make([]string, 0, len(f.constraints))
	for _, c := range f.constraints {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " "+f.connector.String()+" ")
}
