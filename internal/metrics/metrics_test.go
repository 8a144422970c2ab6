package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-cef/internal/metrics"
)

func TestCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.IncEncoded("stdout")
	c.IncEncoded("stdout")
	c.IncRejected("stdout", metrics.ReasonFormat)
	c.ObserveSend("stdout", 0.01)

	n, err := testutil.GatherAndCount(reg, "cef_events_encoded_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = testutil.GatherAndCount(reg, "cef_send_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if m.GetCounter() != nil {
				values[f.GetName()] += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["cef_events_encoded_total"])
	assert.Equal(t, 1.0, values["cef_events_rejected_total"])

	assert.Panics(t, func() { metrics.NewCollector(reg) })
}
