package dataset

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/series"
)

// ErrInvalidConstraint is returned when a constraint's value does not fit its column.
var ErrInvalidConstraint = errors.New("invalid constraint")

// Op is a comparison operator of a Constraint.
type Op string

const (
	Eq        Op = "=="
	Neq       Op = "!="
	Greater   Op = ">"
	GreaterEq Op = ">="
	Less      Op = "<"
	LessEq    Op = "<="
)

func (o Op) comparator() (series.Comparator, bool) {
	switch o {
	case Eq:
		return series.Eq, true
	case Neq:
		return series.Neq, true
	case Greater:
		return series.Greater, true
	case GreaterEq:
		return series.GreaterEq, true
	case Less:
		return series.Less, true
	case LessEq:
		return series.LessEq, true
	}
	return "", false
}

// Constraint compares one column against a value. Comparisons with a missing cell are false.
type Constraint struct {
	Column string
	Op     Op
	Value  interface{}
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s %s %v", c.Column, c.Op, c.Value)
}

// Predicate is a conjunction of constraints. The empty predicate matches every row.
type Predicate []Constraint

// And returns a new predicate with the extra constraints appended.
func (p Predicate) And(cs ...Constraint) Predicate {
	out := make(Predicate, 0, len(p)+len(cs))
	out = append(out, p...)
	return append(out, cs...)
}

// Mask evaluates the predicate against every row of the dataset.
func (p Predicate) Mask(d *Dataset) ([]bool, error) {
	mask := make([]bool, d.Len())
	for i := range mask {
		mask[i] = true
	}
	for _, c := range p {
		hits, err := c.eval(d)
		if err != nil {
			return nil, err
		}
		for i, hit := range hits {
			mask[i] = mask[i] && hit
		}
	}
	return mask, nil
}

// Indices returns the rows matching the predicate, in table order.
func (p Predicate) Indices(d *Dataset) ([]int, error) {
	mask, err := p.Mask(d)
	if err != nil {
		return nil, err
	}
	idx := make([]int, 0, len(mask))
	for i, ok := range mask {
		if ok {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

func (c Constraint) eval(d *Dataset) ([]bool, error) {
	comp, ok := c.Op.comparator()
	if !ok {
		return nil, fmt.Errorf("%w: unknown operator in %s", ErrInvalidConstraint, c)
	}
	value, err := c.normalize(d)
	if err != nil {
		return nil, err
	}

	col := d.df.Col(c.Column)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, c.Column)
	}
	res := col.Compare(comp, value)
	if res.Err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", c, res.Err)
	}
	hits, err := res.Bool()
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", c, err)
	}

	// A missing cell never satisfies a constraint, including !=.
	missing := col.IsNaN()
	for i := range hits {
		if missing[i] {
			hits[i] = false
		}
	}
	return hits, nil
}

func (c Constraint) normalize(d *Dataset) (interface{}, error) {
	switch {
	case d.IsCategory(c.Column):
		s, ok := c.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a string value", ErrInvalidConstraint, c)
		}
		return s, nil
	case d.IsNumeric(c.Column):
		switch v := c.Value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
		return nil, fmt.Errorf("%w: %s needs a numeric value", ErrInvalidConstraint, c)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, c.Column)
}
