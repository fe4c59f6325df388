package qb

import "fmt"

// Operator is a range-constraint-query comparison operator.
type Operator string

// Range operators accepted by the search API (case-sensitive).
const (
	LT Operator = "LT"
	LE Operator = "LE"
	GT Operator = "GT"
	GE Operator = "GE"
	EQ Operator = "EQ"
	NE Operator = "NE"
)

// Valid reports whether o is one of the six range operators.
func (o Operator) Valid() bool {
	switch o {
	case LT, LE, GT, GE, EQ, NE:
		return true
	default:
		return false
	}
}

// ParseOperator validates s as a range operator. An empty s yields EQ.
func ParseOperator(s string) (Operator, error) {
	if s == "" {
		return EQ, nil
	}
	op := Operator(s)
	if !op.Valid() {
		return "", &OperatorError{Operator: s}
	}
	return op, nil
}

// RangeConstraint builds a range-constraint-query comparing the named range
// constraint to values (logical OR). An empty op means EQ. options are range
// options such as "min-occurs=2".
func RangeConstraint(name string, op Operator, values any, options ...string) (Query, error) {
	op, err := ParseOperator(string(op))
	if err != nil {
		return nil, err
	}
	return node(KeyRangeConstraintQuery, map[string]any{
		KeyConstraintName: name,
		KeyRangeOperator:  string(op),
		KeyValue:          AsArray(values),
		KeyRangeOption:    cloneStrings(options),
	}), nil
}

// RangeConstraintOf resolves the ambiguous arities of a range constraint:
//
//	RangeConstraintOf(name, values)
//	RangeConstraintOf(name, operator, values)
//	RangeConstraintOf(name, operator, values, options)
//
// Trailing nil arguments are ignored, so a single remaining argument is always
// the values and the operator defaults to EQ.
func RangeConstraintOf(name string, args ...any) (Query, error) {
	for len(args) > 0 && args[len(args)-1] == nil {
		args = args[:len(args)-1]
	}
	switch len(args) {
	case 0:
		return RangeConstraint(name, EQ, nil)
	case 1:
		return RangeConstraint(name, EQ, args[0])
	}

	var op Operator
	switch v := args[0].(type) {
	case string:
		op = Operator(v)
	case Operator:
		op = v
	default:
		return nil, &OperatorError{Operator: fmt.Sprint(v)}
	}
	var options []string
	if len(args) > 2 {
		options = toStrings(AsArray(args[2]))
	}
	return RangeConstraint(name, op, args[1], options...)
}

// WordConstraint builds a word-constraint-query matching any of values.
func WordConstraint(name string, values any) Query {
	return node(KeyWordConstraintQuery, map[string]any{
		KeyConstraintName: name,
		KeyText:           AsArray(values),
	})
}

// CollectionConstraint builds a collection-constraint-query matching any of
// the collection URIs in values.
func CollectionConstraint(name string, values any) Query {
	return node(KeyCollectionConstraintQuery, map[string]any{
		KeyConstraintName: name,
		KeyURI:            AsArray(values),
	})
}

// OperatorState builds an operator-state query component selecting state of
// the named search operator.
func OperatorState(name, state string) Query {
	return node(KeyOperatorState, map[string]any{
		KeyOperatorName: name,
		KeyStateName:    state,
	})
}

// ConstraintFunc builds a named constraint query from loosely typed values.
type ConstraintFunc func(name string, args ...any) (Query, error)

// Constraint kinds understood by Constraint.
const (
	ConstraintRange      = "range"
	ConstraintValue      = "value"
	ConstraintWord       = "word"
	ConstraintCustom     = "custom"
	ConstraintCollection = "collection"
	ConstraintGeospatial = "geospatial"
)

// Constraint returns the constraint query builder for kind. Unknown kinds
// fall back to the range constraint builder.
func Constraint(kind string) ConstraintFunc {
	switch kind {
	case ConstraintValue:
		return func(name string, args ...any) (Query, error) {
			return ValueConstraintOf(name, collapse(args)), nil
		}
	case ConstraintWord:
		return func(name string, args ...any) (Query, error) {
			return WordConstraint(name, collapse(args)), nil
		}
	case ConstraintCustom:
		return func(name string, args ...any) (Query, error) {
			return CustomConstraintOf(name, args...), nil
		}
	case ConstraintCollection:
		return func(name string, args ...any) (Query, error) {
			return CollectionConstraint(name, collapse(args)), nil
		}
	case ConstraintGeospatial:
		return func(name string, args ...any) (Query, error) {
			return GeospatialConstraint(name, args...), nil
		}
	default:
		return RangeConstraintOf
	}
}

// collapse turns variadic arguments back into the single values argument of
// a two-argument constraint builder.
func collapse(args []any) any {
	switch len(args) {
	case 0:
		return []any{}
	case 1:
		return args[0]
	default:
		return args
	}
}
