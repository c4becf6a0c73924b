package observability

import (
	"context"
	"errors"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "waypoint"

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
	OutcomeQuota       = "quota_exceeded"
	OutcomeError       = "error"
	OutcomeResumed     = "resumed"
	OutcomeAbsent      = "absent"
)

// Metrics holds the collectors for the session engine.
type Metrics struct {
	SubstrateOps *prometheus.CounterVec
	Saves        *prometheus.CounterVec
	Loads        *prometheus.CounterVec
	Rejections   *prometheus.CounterVec
	Clears       prometheus.Counter
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		SubstrateOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "substrate",
				Name:      "operations_total",
				Help:      "Storage substrate calls by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		Saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "saves_total",
				Help:      "Session saves by outcome.",
			},
			[]string{"outcome"},
		),
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "loads_total",
				Help:      "Session loads by outcome (resumed, absent, unavailable).",
			},
			[]string{"outcome"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "rejections_total",
				Help:      "Stored sessions evicted on load, by reason.",
			},
			[]string{"reason"},
		),
		Clears: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "clears_total",
				Help:      "Explicit session clears.",
			},
		),
	}
}

// MustRegister registers every collector with reg.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.SubstrateOps, m.Saves, m.Loads, m.Rejections, m.Clears)
}

// ObserveSubstrate implements middleware.Recorder.
func (m *Metrics) ObserveSubstrate(op string, err error) {
	m.SubstrateOps.WithLabelValues(op, outcome(err)).Inc()
}

// Hooks returns session hooks that feed the session counters.
func (m *Metrics) Hooks() session.Hooks {
	return session.Hooks{
		OnSave: func(ctx context.Context, key string, err error) {
			m.Saves.WithLabelValues(outcome(err)).Inc()
		},
		OnLoad: func(ctx context.Context, key string, r session.Result) {
			switch {
			case r.Valid():
				m.Loads.WithLabelValues(OutcomeResumed).Inc()
			case r.Reason == session.ReasonUnavailable:
				m.Loads.WithLabelValues(OutcomeUnavailable).Inc()
			default:
				m.Loads.WithLabelValues(OutcomeAbsent).Inc()
			}
		},
		OnReject: func(ctx context.Context, key string, reason session.Reason) {
			m.Rejections.WithLabelValues(reason.String()).Inc()
		},
		OnClear: func(ctx context.Context, key string) {
			m.Clears.Inc()
		},
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrQuotaExceeded):
		return OutcomeQuota
	case errors.Is(err, domain.ErrStorageUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}
