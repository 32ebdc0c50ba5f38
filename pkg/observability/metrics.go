package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/graph"
)

// Metrics bundles the editor collectors.
type Metrics struct {
	Mutations      *prometheus.CounterVec
	LayoutDuration prometheus.Histogram
}

// NewMetrics creates and registers the collectors on the given
// registerer. Pass prometheus.DefaultRegisterer for the usual setup.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lattice",
				Name:      "graph_mutations_total",
				Help:      "Committed graph mutations by operation.",
			},
			[]string{"op"},
		),
		LayoutDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "lattice",
				Name:      "layout_duration_seconds",
				Help:      "Time spent computing auto-layout passes.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.Mutations, m.LayoutDuration)
	return m
}

// Hook returns a graph store hook that counts mutations.
func (m *Metrics) Hook() graph.Hook {
	return func(diff domain.GraphDiff) {
		m.Mutations.WithLabelValues(diff.Op).Inc()
	}
}

// ObserveLayout records the duration of one layout pass.
func (m *Metrics) ObserveLayout(start time.Time) {
	m.LayoutDuration.Observe(time.Since(start).Seconds())
}
