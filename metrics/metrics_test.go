package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordState(12.5, 4, 60, 40, 1.125, 1.25, 1.08)

	assert.Equal(t, 12.5, testutil.ToFloat64(m.Fragmentation))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.FragmentCount))
	assert.Equal(t, 60.0, testutil.ToFloat64(m.FreeBlocks))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.OccupiedBlocks))
	assert.Equal(t, 1.125, testutil.ToFloat64(m.SaveTime))
	assert.Equal(t, 1.25, testutil.ToFloat64(m.LoadTime))
	assert.Equal(t, 1.08, testutil.ToFloat64(m.AccessTime))

	m.SavesTotal.Inc()
	m.SavesTotal.Inc()
	m.DefragsTotal.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SavesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DefragsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DeletesTotal))
}
