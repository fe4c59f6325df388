// Package shim keeps the deprecated query builder entry points working.
//
// Every method delegates to its replacement in package qb and logs one
// warning naming the replacement. Output is identical to calling the
// replacement directly.
package shim

import (
	"github.com/joemfb/ml-common-ng/pkg/qb"
	"go.uber.org/zap"
)

// Builder exposes the deprecated names.
type Builder struct {
	logger *zap.Logger
}

// New creates a Builder logging deprecation notices to logger.
// A nil logger discards them.
func New(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

func (b *Builder) deprecated(method, replacement string) {
	b.logger.Warn("deprecated query builder method",
		zap.String("method", method),
		zap.String("replacement", replacement),
	)
}

// Query is the old name of qb.Where.
func (b *Builder) Query(queries ...qb.Query) qb.Query {
	b.deprecated("query", "where")
	return qb.Where(queries...)
}

// Text wraps query text in an object. Pass qtext to qb.Combined instead.
func (b *Builder) Text(qtext string) map[string]any {
	b.deprecated("text", "ext.combined")
	return map[string]any{qb.KeyQText: qtext}
}

// Properties is the old name of qb.PropertiesFragment.
func (b *Builder) Properties(q qb.Query) qb.Query {
	b.deprecated("properties", "propertiesFragment")
	return qb.PropertiesFragment(q)
}

// Range is the old name of qb.RangeConstraintOf.
func (b *Builder) Range(name string, args ...any) (qb.Query, error) {
	b.deprecated("range", "ext.rangeConstraint")
	return qb.RangeConstraintOf(name, args...)
}

// Collection is the old constraint-style name of qb.CollectionConstraint.
func (b *Builder) Collection(name string, values any) qb.Query {
	b.deprecated("collection", "ext.collectionConstraint")
	return qb.CollectionConstraint(name, values)
}

// Custom is the old name of qb.CustomConstraintOf.
func (b *Builder) Custom(name string, args ...any) qb.Query {
	b.deprecated("custom", "ext.customConstraint")
	return qb.CustomConstraintOf(name, args...)
}

// Constraint is the old name of qb.Constraint.
func (b *Builder) Constraint(kind string) qb.ConstraintFunc {
	b.deprecated("constraint", "ext.constraint")
	return qb.Constraint(kind)
}

// Operator is the old name of qb.OperatorState.
func (b *Builder) Operator(name, state string) qb.Query {
	b.deprecated("operator", "ext.operatorState")
	return qb.OperatorState(name, state)
}
