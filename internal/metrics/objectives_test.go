package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectives(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewObjectives(reg)
	require.NoError(t, err)

	m.Record("propose", "ESCOLHA", 3)
	m.Record("propose", "ESCOLHA", 1)
	m.Record("complete", "CONCLUIDO", 0)

	assert.Equal(t, float64(4), testutil.ToFloat64(m.transitions.WithLabelValues("propose", "ESCOLHA")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.transitions))

	_, err = NewObjectives(reg)
	assert.Error(t, err, "second registration on the same registry must fail")

	var unset *Objectives
	assert.NotPanics(t, func() { unset.Record("propose", "ESCOLHA", 1) })
}
