// internal/app/system/remote/metrics.go
package remote

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes reported by Metrics.
const (
	OutcomeOK           = "ok"
	OutcomeFailed       = "failed"
	OutcomeUnreachable  = "unreachable"
	OutcomeShortCircuit = "short_circuit"
)

// Metrics holds the Prometheus collectors for remote service calls. A nil
// *Metrics records nothing.
type Metrics struct {
	Calls    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Breakers *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adminhub",
			Subsystem: "remote",
			Name:      "calls_total",
			Help:      "Remote service calls by service, operation and outcome",
		}, []string{"service", "operation", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "adminhub",
			Subsystem: "remote",
			Name:      "call_duration_seconds",
			Help:      "Duration of remote service calls in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		Breakers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "adminhub",
			Subsystem: "remote",
			Name:      "breaker_state",
			Help:      "Circuit breaker state per service (0 closed, 1 open, 2 half-open)",
		}, []string{"service"}),
	}
	if reg != nil {
		reg.MustRegister(m.Calls, m.Duration, m.Breakers)
	}
	return m
}

func (m *Metrics) observe(service, op, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.Calls.WithLabelValues(service, op, outcome).Inc()
	if outcome != OutcomeShortCircuit {
		m.Duration.WithLabelValues(service, op).Observe(time.Since(started).Seconds())
	}
}

func (m *Metrics) breakerState(service string, s BreakerState) {
	if m == nil {
		return
	}
	m.Breakers.WithLabelValues(service).Set(float64(s))
}
