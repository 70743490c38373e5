package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSyncMetricsFetch(t *testing.T) {
	m := NewSyncMetrics(prometheus.NewRegistry())

	m.Fetch("orders", 10, 0.01, nil)
	m.Fetch("orders", 0, 0.02, errors.New("down"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.FetchesTotal.WithLabelValues("orders")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FetchErrors.WithLabelValues("orders")))
	assert.Equal(t, float64(10), testutil.ToFloat64(m.ItemsFetched.WithLabelValues("orders")))
}

func TestSyncMetricsNilSafe(t *testing.T) {
	var m *SyncMetrics
	assert.NotPanics(t, func() {
		m.Fetch("orders", 1, 0, nil)
		m.DedupSkip("orders")
		m.CacheSkip("orders")
		m.PollTick(1)
		m.PollStale()
		m.PollerStarted()
		m.PollerStopped()
		m.SetSessions(3)
	})
}

func TestCardCounter(t *testing.T) {
	m := NewSyncMetrics(prometheus.NewRegistry())
	c := NewCardCounter(m)

	c.Observe("A1")
	c.Observe("A1")
	c.Observe("B2")

	assert.Equal(t, uint64(2), c.Estimate())
	assert.Equal(t, float64(2), testutil.ToFloat64(m.UniqueCards))
}
