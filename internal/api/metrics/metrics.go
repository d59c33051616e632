// Package metrics defines and registers all custom Prometheus metrics for the
// caretaker portal. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; the /metrics endpoint serves them alongside echo's request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid_credentials", "access_denied" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of portal login attempts, by result.",
	},
	[]string{"result"},
)

// WorkspacesActive tracks the number of browsers with a live workspace.
var WorkspacesActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "workspaces_active",
		Help:      "Current number of live per-browser workspaces.",
	},
)

// ── Invitation metrics ────────────────────────────────────────────────────────

// InvitationDecisionsTotal counts accept/decline attempts.
// Labels:
//   - decision: "accept" or "decline"
//   - result: "ok", "in_flight", "unconfirmed" or "error"
var InvitationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitation_decisions_total",
		Help:      "Total number of invitation decisions, by decision and result.",
	},
	[]string{"decision", "result"},
)

// InvitationStreamsActive tracks open invitation SSE streams.
var InvitationStreamsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "invitation_streams_active",
		Help:      "Current number of open invitation polling streams.",
	},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// ResourceDeletesTotal counts confirmed deletes.
// Labels:
//   - resource: "memory" or "reminder"
//   - result: "ok" or "error"
var ResourceDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_deletes_total",
		Help:      "Total number of confirmed resource deletes, by resource and result.",
	},
	[]string{"resource", "result"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the REST backend and the TTS service.
// Labels:
//   - operation: short name of the call (e.g. "login", "list_memories")
//   - status: HTTP status code, or "error" when no response arrived
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of outbound backend requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "status"},
)

// ── Narration metrics ─────────────────────────────────────────────────────────

// NarrationJobsTotal counts processed narration jobs.
// Label:
//   - result: "ok" or "error"
var NarrationJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "narration_jobs_total",
		Help:      "Total number of narration jobs processed, by result.",
	},
	[]string{"result"},
)

// NarrationQueueDepth tracks the number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NarrationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "narration_queue_depth",
		Help:      "Current number of narration jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
