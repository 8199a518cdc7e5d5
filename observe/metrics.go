package observe

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts finished calls by operation and outcome and records their
// latency.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg under namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "imagine_calls_total",
				Help:      "Total number of image service calls by outcome",
			},
			[]string{"op", "dialect", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "imagine_call_duration_seconds",
				Help:      "Image service call duration in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"op", "dialect"},
		),
	}

	for _, c := range []prometheus.Collector{m.calls, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}

	return &m, nil
}

func (m *Metrics) Observe(_ context.Context, tr Trace) {
	switch tr.Stage {
	case StageResponse:
		m.calls.WithLabelValues(tr.Op, tr.Dialect, OutcomeOK).Inc()
	case StageError:
		m.calls.WithLabelValues(tr.Op, tr.Dialect, tr.Outcome).Inc()
	default:
		return
	}

	if !tr.Start.IsZero() {
		m.duration.WithLabelValues(tr.Op, tr.Dialect).Observe(tr.Duration.Seconds())
	}
}
