package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutations and remote sync outcomes.
type CartMetrics struct {
	mutations    *prometheus.CounterVec
	syncSuccess  prometheus.Counter
	syncFailure  *prometheus.CounterVec
	mergeLatency prometheus.Histogram
}

// NewCartMetrics registers the cart metrics on the provided registerer.
// A nil registerer yields a no-op recorder, which tests rely on.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart store mutations by operation.",
	}, []string{"op"})
	syncSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_sync_success_total",
		Help: "Successful remote cart merges.",
	})
	syncFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_sync_failure_total",
		Help: "Failed remote cart merges by stage.",
	}, []string{"stage"})
	mergeLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_merge_duration_seconds",
		Help:    "Duration of remote cart merge round-trips.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(mutations, syncSuccess, syncFailure, mergeLatency)
	return &CartMetrics{
		mutations:    mutations,
		syncSuccess:  syncSuccess,
		syncFailure:  syncFailure,
		mergeLatency: mergeLatency,
	}
}

// IncMutation counts one cart mutation for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncSyncSuccess counts one completed merge.
func (c *CartMetrics) IncSyncSuccess() {
	if c == nil || c.syncSuccess == nil {
		return
	}
	c.syncSuccess.Inc()
}

// IncSyncFailure counts one failed merge for the named stage (fetch, upsert).
func (c *CartMetrics) IncSyncFailure(stage string) {
	if c == nil || c.syncFailure == nil {
		return
	}
	c.syncFailure.WithLabelValues(normalizeLabel(stage)).Inc()
}

// ObserveMergeDuration records the merge round-trip time.
func (c *CartMetrics) ObserveMergeDuration(duration time.Duration) {
	if c == nil || c.mergeLatency == nil {
		return
	}
	c.mergeLatency.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}
