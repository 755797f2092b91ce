// Package metrics defines and registers all custom Prometheus metrics for
// the portal client runtime. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register themselves with the default registry via promauto;
// embedding applications expose them however they already expose metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Polling metrics ───────────────────────────────────────────────────────────

// PollTicksTotal counts fetches issued by polling refreshers.
// Label:
//   - feed: the feed being polled (e.g. "notifications", "chat")
var PollTicksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_ticks_total",
		Help:      "Total number of poll fetches issued, by feed.",
	},
	[]string{"feed"},
)

// PollErrorsTotal counts poll fetches that completed with an error. A
// failed tick never cancels the schedule, so this can grow while the feed
// keeps refreshing.
var PollErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_errors_total",
		Help:      "Total number of poll fetches that failed, by feed.",
	},
	[]string{"feed"},
)

// FeedFallbacksTotal counts refreshes served from the fallback derivation
// because the canonical endpoint returned 404.
var FeedFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_fallbacks_total",
		Help:      "Total number of feed refreshes served from the fallback source.",
	},
	[]string{"feed"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// AuthFailuresTotal counts 401 responses observed by the authenticated
// client. Each one clears the persisted credential.
var AuthFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication failures (HTTP 401) observed.",
	},
)

// SessionRestoresTotal counts startup session restorations.
// Label:
//   - result: "ok", "expired", "rejected", or "none"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of startup session restorations, by result.",
	},
	[]string{"result"},
)

// ── Transport metrics ─────────────────────────────────────────────────────────

// RequestDuration measures round-trip latency of backend requests.
// Label:
//   - method: HTTP method of the request
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of backend API requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method"},
)
