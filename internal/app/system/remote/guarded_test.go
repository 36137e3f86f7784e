package remote

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type role struct{ Name string }

// scriptedService answers Count with the next scripted result.
type scriptedService struct {
	FallbackService[role]
	results []paging.Result[int64]
	calls   int
}

func (s *scriptedService) Count(context.Context, paging.CountQuery) paging.Result[int64] {
	res := s.results[s.calls%len(s.results)]
	s.calls++
	return res
}

func TestGuarded_RoutesToFallbackWhenOpen(t *testing.T) {
	primary := &scriptedService{results: []paging.Result[int64]{paging.Unreachable[int64]()}}
	breaker := NewBreaker("roles", BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	metrics := NewMetrics(prometheus.NewRegistry())
	g := NewGuarded[role]("roles", primary, nil, breaker, metrics, zap.NewNop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		g.Count(ctx, paging.CountQuery{})
	}
	if breaker.State() != BreakerOpen {
		t.Fatalf("state = %v, want open", breaker.State())
	}

	res := g.Count(ctx, paging.CountQuery{})
	if res.Success || res.Message != paging.CannotConnect {
		t.Errorf("Count() while open = %+v", res)
	}
	if primary.calls != 2 {
		t.Errorf("primary calls = %d, want 2 (third call short-circuited)", primary.calls)
	}

	if v := testutil.ToFloat64(metrics.Calls.WithLabelValues("roles", "count", OutcomeUnreachable)); v != 2 {
		t.Errorf("unreachable count = %v, want 2", v)
	}
	if v := testutil.ToFloat64(metrics.Calls.WithLabelValues("roles", "count", OutcomeShortCircuit)); v != 1 {
		t.Errorf("short-circuit count = %v, want 1", v)
	}
	if v := testutil.ToFloat64(metrics.Breakers.WithLabelValues("roles")); v != float64(BreakerOpen) {
		t.Errorf("breaker gauge = %v, want %d", v, BreakerOpen)
	}
}

func TestGuarded_RejectionsKeepBreakerClosed(t *testing.T) {
	primary := &scriptedService{results: []paging.Result[int64]{paging.Fail[int64]("forbidden")}}
	breaker := NewBreaker("roles", BreakerConfig{FailureThreshold: 1})
	g := NewGuarded[role]("roles", primary, nil, breaker, nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		if res := g.Count(context.Background(), paging.CountQuery{}); res.Message != "forbidden" {
			t.Fatalf("Count() = %+v", res)
		}
	}
	if breaker.State() != BreakerClosed {
		t.Errorf("state = %v, want closed", breaker.State())
	}
}

func TestGuarded_RecoversAfterProbe(t *testing.T) {
	primary := &scriptedService{results: []paging.Result[int64]{
		paging.Unreachable[int64](),
		paging.OK(int64(4)),
	}}
	clock := time.Now()
	breaker := NewBreaker("roles", BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second})
	breaker.now = func() time.Time { return clock }
	g := NewGuarded[role]("roles", primary, nil, breaker, nil, zap.NewNop())

	ctx := context.Background()
	g.Count(ctx, paging.CountQuery{})
	clock = clock.Add(time.Second)

	if n, ok := g.Count(ctx, paging.CountQuery{}).Value(); !ok || n != 4 {
		t.Errorf("probe Count() = %d, %v", n, ok)
	}
	if breaker.State() != BreakerClosed {
		t.Errorf("state = %v, want closed", breaker.State())
	}
}

func TestGuard_FreeFunction(t *testing.T) {
	breaker := NewBreaker("security", BreakerConfig{FailureThreshold: 1})
	calls := 0
	fn := func() paging.Result[string] { calls++; return paging.Unreachable[string]() }

	Guard(breaker, nil, "security", "authenticate", fn)
	res := Guard(breaker, nil, "security", "authenticate", fn)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if res.Message != paging.CannotConnect {
		t.Errorf("result = %+v", res)
	}
}
