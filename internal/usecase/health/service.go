// Package health reports availability of the search engine and the term
// catalog store.
package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the term store is unavailable.
	Degraded Status = "degraded"
	// Unhealthy indicates the engine is unavailable.
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

// Component names in Report.Checks.
const (
	ComponentEngine = "engine"
	ComponentTerms  = "terms"
)

// DefaultTimeout bounds each component check.
const DefaultTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	engine  Pinger
	terms   Pinger
	timeout time.Duration
}

// New creates a Service. terms can be nil.
func New(engine, terms Pinger) *Service {
	return &Service{engine: engine, terms: terms, timeout: DefaultTimeout}
}

// Check pings every component. An unreachable engine makes the service
// unhealthy; an unreachable term store only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		ComponentEngine: s.ping(ctx, s.engine),
	}
	if s.terms != nil {
		checks[ComponentTerms] = s.ping(ctx, s.terms)
	}

	status := Healthy
	switch {
	case checks[ComponentEngine] == CheckError:
		status = Unhealthy
	case checks[ComponentTerms] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func (s *Service) ping(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
