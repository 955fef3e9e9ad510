package observability

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/keepaway/pkg/domain"
)

// Outcome labels for keepaway_runs_total.
const (
	OutcomeSuccess   = "success"
	OutcomeMalformed = "malformed"
	OutcomeOverflow  = "overflow"
	OutcomeTimeout   = "timeout"
	OutcomeError     = "error"
)

// Metrics holds the collectors exported by the solver.
type Metrics struct {
	Runs         *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	Inspections  prometheus.Counter
	Rounds       prometheus.Counter
	CacheLookups *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keepaway_runs_total",
				Help: "Total number of simulation runs by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "keepaway_run_duration_seconds",
				Help:    "Duration of simulation runs",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"mode"},
		),
		Inspections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "keepaway_items_inspected_total",
			Help: "Total number of item inspections across all runs",
		}),
		Rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "keepaway_rounds_total",
			Help: "Total number of completed rounds across all runs",
		}),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keepaway_cache_lookups_total",
				Help: "Answer cache lookups by result",
			},
			[]string{"result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.Duration, m.Inspections, m.Rounds, m.CacheLookups)
	}
	return m
}

// Hooks returns engine hooks that feed the per-run counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(e *domain.TurnEvent) {
			m.Inspections.Add(float64(e.Inspected))
		},
		OnRoundComplete: func(e *domain.RoundEvent) {
			m.Rounds.Inc()
		},
	}
}

// ObserveRun records the outcome and duration of a run.
func (m *Metrics) ObserveRun(mode string, d time.Duration, err error) {
	m.Runs.WithLabelValues(mode, Outcome(err)).Inc()
	m.Duration.WithLabelValues(mode).Observe(d.Seconds())
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// Outcome classifies a run error into a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrMalformedDefinition), errors.Is(err, domain.ErrInvalidRunConfig):
		return OutcomeMalformed
	case errors.Is(err, domain.ErrArithmeticOverflow), errors.Is(err, domain.ErrDivisionByZero):
		return OutcomeOverflow
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}

// Chain merges hook sets; each callback of a runs before the one of b.
func Chain(a, b domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(e *domain.RunEvent) {
			if a.OnRunStart != nil {
				a.OnRunStart(e)
			}
			if b.OnRunStart != nil {
				b.OnRunStart(e)
			}
		},
		OnTurn: func(e *domain.TurnEvent) {
			if a.OnTurn != nil {
				a.OnTurn(e)
			}
			if b.OnTurn != nil {
				b.OnTurn(e)
			}
		},
		OnRoundComplete: func(e *domain.RoundEvent) {
			if a.OnRoundComplete != nil {
				a.OnRoundComplete(e)
			}
			if b.OnRoundComplete != nil {
				b.OnRoundComplete(e)
			}
		},
		OnRunComplete: func(r *domain.Result) {
			if a.OnRunComplete != nil {
				a.OnRunComplete(r)
			}
			if b.OnRunComplete != nil {
				b.OnRunComplete(r)
			}
		},
	}
}
