package mlrest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Outcome labels of mlcommon_client_requests_total.
const (
	outcomeOK           = "ok"
	outcomeNotFound     = "not_found"
	outcomeUnauthorized = "unauthorized"
	outcomeClientError  = "client_error"
	outcomeServerError  = "server_error"
	outcomeCanceled     = "canceled"
	outcomeTransport    = "transport"
)

// restBuckets cover MarkLogic REST latencies from cached /ping to heavy
// faceted searches.
var restBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mlcommon",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "MarkLogic REST calls by client operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mlcommon",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "MarkLogic REST call latency by client operation.",
			Buckets:   restBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or swaps in the collector already registered
// under the same descriptor so several clients can share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("mlrest: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("mlrest: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer records every client operation. A nil observer, or one without
// logger or metrics, skips the missing half.
type observer struct {
	logger  *zap.Logger
	metrics *clientMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newClientMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// outcomeOf classifies err by the MarkLogic status carried in *APIError.
func outcomeOf(err error) string {
	if err == nil {
		return outcomeOK
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return outcomeCanceled
		}
		return outcomeTransport
	}
	switch {
	case errors.Is(apiErr, ErrNotFound):
		return outcomeNotFound
	case errors.Is(apiErr, ErrUnauthorized):
		return outcomeUnauthorized
	case errors.Is(apiErr, ErrServer):
		return outcomeServerError
	default:
		return outcomeClientError
	}
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	outcome := outcomeOf(err)

	if o.metrics != nil {
		o.metrics.requests.WithLabelValues(op, outcome).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("outcome", outcome),
		zap.Duration("duration", dur),
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		fields = append(fields,
			zap.String("method", apiErr.Method),
			zap.String("url", apiErr.URL),
			zap.Int("status", apiErr.StatusCode),
		)
	}
	switch outcome {
	case outcomeOK:
		o.logger.Debug("marklogic call completed", fields...)
	case outcomeNotFound, outcomeCanceled:
		// Missing documents and abandoned calls are routine.
		o.logger.Debug("marklogic call failed", append(fields, zap.Error(err))...)
	default:
		o.logger.Warn("marklogic call failed", append(fields, zap.Error(err))...)
	}
}
