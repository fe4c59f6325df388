package qb

import "errors"

// ErrInvalidArgument signals an argument the builder refuses to encode.
var ErrInvalidArgument = errors.New("invalid argument")

// OperatorError reports a range operator outside LT, LE, GT, GE, EQ, NE.
type OperatorError struct {
	Operator string
}

func (e *OperatorError) Error() string {
	return "invalid rangeConstraint query operator: " + e.Operator
}

func (e *OperatorError) Unwrap() error { return ErrInvalidArgument }
