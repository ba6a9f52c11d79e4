package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordValues(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTick(0.016)
	m.SetBodiesAlive(42)
	m.SetTimescale(2.5)
	m.AddMerges(3)
	m.IncBodiesDropped()
	m.IncTickBuildFailures()

	assert.Equal(t, 42.0, testutil.ToFloat64(m.bodiesAlive))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.timescale))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.merges))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bodiesDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tickBuildFails))
}
