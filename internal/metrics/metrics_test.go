package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	m := metrics.NewMetrics(reg)

	m.Operations.WithLabelValues("create", "success").Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(m.Operations.WithLabelValues("create", "success")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.SnapshotWrites))

	_, err := reg.Gather()
	require.NoError(t, err)
}

func TestNewMetrics_DoubleRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_ = metrics.NewMetrics(reg)

	assert.Panics(t, func() {
		metrics.NewMetrics(reg)
	})
}
