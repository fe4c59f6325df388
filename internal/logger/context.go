package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

var nop = zap.NewNop()

// ContextWithLogger returns a copy of ctx carrying l. A nil l is stored as
// a no-op logger.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	if l == nil {
		l = nop
	}
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or a no-op logger when ctx
// carries none.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return nop
	}
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return nop
}

// WithFields returns a copy of ctx whose logger also carries fields, so
// later log lines of the same request share them.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	return ContextWithLogger(ctx, FromContext(ctx).With(fields...))
}
