// Package metrics holds the domain counters exposed next to the HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Objectives counts objective workflow transitions.
type Objectives struct {
	transitions *prometheus.CounterVec
}

// NewObjectives registers the objective counters on reg.
func NewObjectives(reg prometheus.Registerer) (*Objectives, error) {
	m := &Objectives{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "azimute_objective_transitions_total",
				Help: "Objective records moved by the approval workflow.",
			},
			[]string{"action", "to"},
		),
	}
	if err := reg.Register(m.transitions); err != nil {
		return nil, err
	}
	return m, nil
}

// Record adds n transitions of action ending in state to.
func (m *Objectives) Record(action, to string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.transitions.WithLabelValues(action, to).Add(float64(n))
}
