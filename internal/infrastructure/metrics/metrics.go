package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SyncMetrics holds the counters of the sync layer. All methods are safe on a
// nil receiver so callers may run without metrics.
type SyncMetrics struct {
	// Fetches against the checkout backend
	FetchesTotal  *prometheus.CounterVec
	FetchErrors   *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	ItemsFetched  *prometheus.CounterVec

	// Skipped fetches
	DedupSkipsTotal *prometheus.CounterVec
	CacheSkipsTotal *prometheus.CounterVec

	// Polling
	PollTicksTotal   prometheus.Counter
	PollUpserts      prometheus.Counter
	PollStaleDropped prometheus.Counter
	ActivePollers    prometheus.Gauge

	// Sessions
	ActiveSessions prometheus.Gauge
	UniqueCards    prometheus.Gauge
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	f := promauto.With(reg)
	return &SyncMetrics{
		FetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_sync_fetches_total",
				Help: "Requests issued to the checkout backend",
			},
			[]string{"resource"},
		),
		FetchErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_sync_fetch_errors_total",
				Help: "Failed requests to the checkout backend",
			},
			[]string{"resource"},
		),
		FetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_sync_fetch_duration_seconds",
				Help:    "Latency of checkout backend requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
		ItemsFetched: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_sync_items_fetched_total",
				Help: "Records received from the checkout backend",
			},
			[]string{"resource"},
		),
		DedupSkipsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_sync_dedup_skips_total",
				Help: "Page fetches skipped because the offset was already requested",
			},
			[]string{"resource"},
		),
		CacheSkipsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_sync_cache_skips_total",
				Help: "Loads skipped inside the reload window",
			},
			[]string{"resource"},
		),
		PollTicksTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "wallet_sync_poll_ticks_total",
			Help: "Polls for new transactions",
		}),
		PollUpserts: f.NewCounter(prometheus.CounterOpts{
			Name: "wallet_sync_poll_upserts_total",
			Help: "Transactions merged by polling",
		}),
		PollStaleDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "wallet_sync_poll_stale_dropped_total",
			Help: "Poll responses discarded because polling stopped while in flight",
		}),
		ActivePollers: f.NewGauge(prometheus.GaugeOpts{
			Name: "wallet_sync_active_pollers",
			Help: "Running transaction pollers",
		}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "wallet_sync_active_sessions",
			Help: "Open wallet sessions",
		}),
		UniqueCards: f.NewGauge(prometheus.GaugeOpts{
			Name: "wallet_sync_unique_cards",
			Help: "Estimated number of distinct cards seen since start",
		}),
	}
}

func (m *SyncMetrics) Fetch(resource string, items int, seconds float64, err error) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(resource).Inc()
	m.FetchDuration.WithLabelValues(resource).Observe(seconds)
	if err != nil {
		m.FetchErrors.WithLabelValues(resource).Inc()
		return
	}
	m.ItemsFetched.WithLabelValues(resource).Add(float64(items))
}

func (m *SyncMetrics) DedupSkip(resource string) {
	if m == nil {
		return
	}
	m.DedupSkipsTotal.WithLabelValues(resource).Inc()
}

func (m *SyncMetrics) CacheSkip(resource string) {
	if m == nil {
		return
	}
	m.CacheSkipsTotal.WithLabelValues(resource).Inc()
}

func (m *SyncMetrics) PollTick(upserted int) {
	if m == nil {
		return
	}
	m.PollTicksTotal.Inc()
	m.PollUpserts.Add(float64(upserted))
}

func (m *SyncMetrics) PollStale() {
	if m == nil {
		return
	}
	m.PollStaleDropped.Inc()
}

func (m *SyncMetrics) PollerStarted() {
	if m == nil {
		return
	}
	m.ActivePollers.Inc()
}

func (m *SyncMetrics) PollerStopped() {
	if m == nil {
		return
	}
	m.ActivePollers.Dec()
}

func (m *SyncMetrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
