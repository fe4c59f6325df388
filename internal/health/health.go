// Package health aggregates readiness checks of the proxy's dependencies.
package health

import (
	"context"
	"maps"
	"slices"
	"time"
)

// Pinger checks availability of one dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// New creates a Service running each named check with the given timeout.
// A non-positive timeout leaves the caller's context as is.
func New(checks map[string]Pinger, timeout time.Duration) *Service {
	return &Service{checks: maps.Clone(checks), timeout: timeout}
}

// Check runs every check. The status is Healthy when all pass, Unhealthy
// when all fail and Degraded otherwise.
func (s *Service) Check(ctx context.Context) Report {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	checks := make(map[string]CheckResult, len(s.checks))
	failed := 0
	for _, name := range slices.Sorted(maps.Keys(s.checks)) {
		if err := s.checks[name].Ping(ctx); err != nil {
			checks[name] = CheckError
			failed++
		} else {
			checks[name] = CheckOK
		}
	}

	status := Healthy
	switch {
	case failed > 0 && failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}
