// Package resilience bounds calls to external dependencies with a timeout and
// a circuit breaker, so that a slow or failing dependency degrades quickly.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketplace/internal/pkg/metrics"

	"github.com/sony/gobreaker"
)

const (
	DefaultTimeout     = 2 * time.Second
	defaultMaxRequests = 3
	defaultInterval    = 15 * time.Second
	defaultOpenTimeout = 30 * time.Second
	minRequestsToTrip  = 5
	failureRatioToTrip = 0.6
)

// Guard runs calls to one named dependency.
type Guard struct {
	name    string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
}

// NewGuard creates a guard whose breaker opens when at least 60% of five or more
// calls in a 15s window fail, and lets a trial call through after 30s.
func NewGuard(name string, timeout time.Duration, logger *slog.Logger) *Guard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := logger.With("component", "circuit_breaker", "dependency", name)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: defaultMaxRequests,
		Interval:    defaultInterval,
		Timeout:     defaultOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequestsToTrip && ratio >= failureRatioToTrip
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			log.Warn("Circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return &Guard{name: name, timeout: timeout, breaker: breaker}
}

// Name returns the dependency name used in logs and metrics.
func (g *Guard) Name() string {
	return g.name
}

// Do runs fn with a context bounded by the guard's timeout. Calls are rejected
// without running fn while the breaker is open.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := g.breaker.Execute(func() (any, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return nil, fn(callCtx)
	})
	return err
}

// IsOpen reports whether err was produced by a breaker refusing the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// stateValue maps breaker states onto the gauge: 0 closed, 1 open, 2 half-open.
func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
