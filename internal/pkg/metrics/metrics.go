// Package metrics defines the custom Prometheus metrics of the bancas API.
// Metrics register with the default registry on import; the HTTP metrics come
// from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bancas"

// ── Jugada metrics ────────────────────────────────────────────────────────────

// JugadasCreatedTotal counts persisted jugadas.
// Label:
//   - mode: "single" or "batch"
var JugadasCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jugadas_created_total",
		Help:      "Total number of jugadas registered.",
	},
	[]string{"mode"},
)

var JugadasCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jugadas_cancelled_total",
		Help:      "Total number of jugadas cancelled.",
	},
)

// JugadasRejectedTotal counts lifecycle rule violations.
// Label:
//   - reason: the state error code (e.g. "banca_inactive", "cancellation_window_expired")
var JugadasRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jugadas_rejected_total",
		Help:      "Total number of jugada operations rejected by a lifecycle rule.",
	},
	[]string{"reason"},
)

// ── Access metrics ────────────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected before reaching a handler.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by authentication or authorization.",
	},
	[]string{"reason"},
)

var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsProcessedTotal counts lifecycle events delivered to every sink.
// Label:
//   - type: "jugada.created" or "jugada.cancelled"
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of lifecycle events delivered.",
	},
	[]string{"type"},
)

var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of lifecycle events that failed in at least one sink.",
	},
	[]string{"type"},
)

var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of lifecycle events dropped because a worker queue was full.",
	},
)

// EventsQueueDepth tracks pending events per worker.
// Label:
//   - worker_id: numeric worker index
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of event delivery from dequeue to the last sink.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
