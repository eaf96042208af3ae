package observability

import (
	"github.com/aretw0/tweak/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for a tweak panel.
type Metrics struct {
	Cells    prometheus.Gauge
	Renders  *prometheus.CounterVec
	Edits    *prometheus.CounterVec
	Poisoned prometheus.Counter
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	cells := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tweak_cells",
		Help: "Number of initialized tweak groups and variables",
	})

	renders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweak_renders_total",
		Help: "Total renders of a tweak group or variable",
	}, []string{"group"})

	edits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweak_edits_total",
		Help: "Total values changed through a drag control",
	}, []string{"group", "name"})

	poisoned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweak_poisoned_total",
		Help: "Total tweak storage cells poisoned by a panicking render",
	})

	reg.MustRegister(cells, renders, edits, poisoned)

	return &Metrics{
		Cells:    cells,
		Renders:  renders,
		Edits:    edits,
		Poisoned: poisoned,
	}
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnInit: func(*domain.CellEvent) {
			m.Cells.Inc()
		},
		OnRender: func(key domain.Key) {
			m.Renders.WithLabelValues(key.String()).Inc()
		},
		OnEdit: func(e *domain.EditEvent) {
			m.Edits.WithLabelValues(e.Key.String(), e.Label).Inc()
		},
		OnPoison: func(domain.Key, any) {
			m.Poisoned.Inc()
		},
	}
}
