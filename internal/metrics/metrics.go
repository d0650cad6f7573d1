// Package metrics exposes run counters on the monitoring endpoints:
// Prometheus collectors for /metrics and a coarse health snapshot for
// /health.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	FeedFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tzscan",
		Name:      "feed_fetches_total",
		Help:      "Feed fetch attempts by outcome",
	}, []string{"status"})

	ItemsCollected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tzscan",
		Name:      "items_collected_total",
		Help:      "Raw feed entries collected across all sources",
	})

	ItemsMatched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tzscan",
		Name:      "items_matched_total",
		Help:      "Entries that passed the relevance filter",
	})

	DuplicatesCollapsed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tzscan",
		Name:      "duplicates_collapsed_total",
		Help:      "Matched entries removed by deduplication",
	})

	NotificationsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tzscan",
		Name:      "notifications_sent_total",
		Help:      "Alert lines pushed to the notifier",
	})

	RunDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "tzscan",
		Name:      "run_duration_seconds",
		Help:      "Time spent on one scan cycle",
	})
)

func init() {
	prometheus.MustRegister(
		FeedFetches, ItemsCollected, ItemsMatched,
		DuplicatesCollapsed, NotificationsSent, RunDuration,
	)
}

// Health is a coarse status snapshot for the /health endpoint.
type Health struct {
	mu        sync.RWMutex
	lastRun   time.Time
	lastError string
	errorTime time.Time
	healthy   bool
}

var Status = &Health{healthy: true}

func (h *Health) SetLastRun() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = time.Now()
	h.healthy = true
}

func (h *Health) SetError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastError = msg
	h.errorTime = time.Now()
	h.healthy = false
}

func (h *Health) Snapshot() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]interface{}{
		"last_run_time":   h.lastRun.Format(time.RFC3339),
		"last_error":      h.lastError,
		"last_error_time": h.errorTime.Format(time.RFC3339),
		"is_healthy":      h.healthy,
	}
}
