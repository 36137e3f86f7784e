// internal/app/system/remote/guarded.go
package remote

import (
	"context"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"go.uber.org/zap"
)

// Guarded routes calls to the real service while its breaker allows it and
// to the fallback otherwise. It replaces the static "is the service up"
// choice with a per-call decision.
type Guarded[T any] struct {
	name     string
	primary  Service[T]
	fallback Service[T]
	breaker  *Breaker
	metrics  *Metrics
	log      *zap.Logger
}

// NewGuarded wraps primary. A nil fallback means FallbackService.
func NewGuarded[T any](name string, primary, fallback Service[T], breaker *Breaker, metrics *Metrics, logger *zap.Logger) *Guarded[T] {
	if fallback == nil {
		fallback = FallbackService[T]{}
	}
	if breaker == nil {
		breaker = NewBreaker(name, BreakerConfig{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Guarded[T]{
		name:     name,
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		metrics:  metrics,
		log:      logger,
	}
	metrics.breakerState(name, breaker.State())
	breaker.OnStateChange(func(svc string, from, to BreakerState) {
		metrics.breakerState(svc, to)
		logger.Warn("service breaker changed state",
			zap.String("service", svc),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
	})
	return g
}

// Name returns the guarded service name.
func (g *Guarded[T]) Name() string { return g.name }

// Breaker exposes the breaker for health reporting.
func (g *Guarded[T]) Breaker() *Breaker { return g.breaker }

func (g *Guarded[T]) Find(ctx context.Context, q paging.Query) paging.Result[paging.Page[T]] {
	return guard(g, "find", func(s Service[T]) paging.Result[paging.Page[T]] { return s.Find(ctx, q) })
}

func (g *Guarded[T]) Count(ctx context.Context, q paging.CountQuery) paging.Result[int64] {
	return guard(g, "count", func(s Service[T]) paging.Result[int64] { return s.Count(ctx, q) })
}

func (g *Guarded[T]) Get(ctx context.Context, id int64) paging.Result[T] {
	return guard(g, "get", func(s Service[T]) paging.Result[T] { return s.Get(ctx, id) })
}

func (g *Guarded[T]) Save(ctx context.Context, item T) paging.Result[T] {
	return guard(g, "save", func(s Service[T]) paging.Result[T] { return s.Save(ctx, item) })
}

func (g *Guarded[T]) Delete(ctx context.Context, id int64) paging.Result[bool] {
	return guard(g, "delete", func(s Service[T]) paging.Result[bool] { return s.Delete(ctx, id) })
}

// Guard runs an operation outside the Service interface (for example
// Authenticate) through the same breaker and metrics. fallback is returned
// when the breaker is open.
func Guard[R any](b *Breaker, m *Metrics, service, op string, fn func() paging.Result[R]) paging.Result[R] {
	started := time.Now()
	if b.Allow() != nil {
		m.observe(service, op, OutcomeShortCircuit, started)
		return paging.Unreachable[R]()
	}
	res := fn()
	record(b, m, service, op, started, res.Success, res.Message)
	return res
}

func guard[T, R any](g *Guarded[T], op string, fn func(Service[T]) paging.Result[R]) paging.Result[R] {
	started := time.Now()
	if g.breaker.Allow() != nil {
		g.metrics.observe(g.name, op, OutcomeShortCircuit, started)
		return fn(g.fallback)
	}
	res := fn(g.primary)
	record(g.breaker, g.metrics, g.name, op, started, res.Success, res.Message)
	return res
}

func record(b *Breaker, m *Metrics, service, op string, started time.Time, success bool, message string) {
	switch {
	case IsUnreachable(success, message):
		b.Failure()
		m.observe(service, op, OutcomeUnreachable, started)
	case success:
		b.Success()
		m.observe(service, op, OutcomeOK, started)
	default:
		// The service answered; a rejection says nothing about its health.
		b.Success()
		m.observe(service, op, OutcomeFailed, started)
	}
}
