// Package metrics defines and registers all custom Prometheus metrics for the
// jobportal shell server. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto and exposed at /metrics next to the echoprometheus request metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jobportal/portal/internal/core/domain"
)

const namespace = "jobportal"

// ── Backend client metrics ────────────────────────────────────────────────────

// ClientRequestsTotal counts calls made to the job-board backend.
// Labels:
//   - client: resource group ("auth", "jobs")
//   - method: HTTP method
//   - route:  path template (e.g. "/api/jobs/{id}")
//   - outcome: "ok" or the normalized error kind ("backend", "network", …)
var ClientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_requests_total",
		Help:      "Total number of backend API calls, by outcome.",
	},
	[]string{"client", "method", "route", "outcome"},
)

// ClientRequestDuration measures backend call latency including body decode.
// Labels:
//   - client: resource group
//   - route:  path template
var ClientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "client_request_duration_seconds",
		Help:      "Duration of backend API calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"client", "route"},
)

// ClientResponseStatusTotal counts backend responses by status code. Calls
// without a response are recorded as "0".
var ClientResponseStatusTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_response_status_total",
		Help:      "Total number of backend responses, by HTTP status code.",
	},
	[]string{"client", "code"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts completed session transitions.
// Labels:
//   - op: "login", "register" or "logout"
//   - state: resulting state
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session transitions, by operation.",
	},
	[]string{"op", "state"},
)

// ShellSubscribers tracks open /shell/events streams.
var ShellSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "shell_subscribers",
		Help:      "Current number of shells subscribed to profile-picture updates.",
	},
)

// ── Triage metrics ────────────────────────────────────────────────────────────

// StatusQueueDepth tracks pending status changes in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var StatusQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "status_queue_depth",
		Help:      "Current number of status changes pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// StatusChangesTotal counts bulk status changes by result.
// Label:
//   - result: "applied" or "failed"
var StatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_changes_total",
		Help:      "Total number of bulk application status changes, by result.",
	},
	[]string{"result"},
)

// Recorder adapts the package metrics to the observer interfaces of the
// client, the auth service and the status dispatcher.
type Recorder struct{}

func (Recorder) ObserveCall(client, method, route string, status int, kind domain.ErrorKind, elapsed time.Duration) {
	outcome := "ok"
	if kind != "" {
		outcome = string(kind)
	}
	ClientRequestsTotal.WithLabelValues(client, method, route, outcome).Inc()
	ClientRequestDuration.WithLabelValues(client, route).Observe(elapsed.Seconds())
	ClientResponseStatusTotal.WithLabelValues(client, strconv.Itoa(status)).Inc()
}

func (Recorder) SessionTransition(op string, to domain.AuthState) {
	SessionTransitionsTotal.WithLabelValues(op, to.String()).Inc()
}

func (Recorder) QueueDepth(workerID string, depth int) {
	StatusQueueDepth.WithLabelValues(workerID).Set(float64(depth))
}

// StatusChange records one bulk result.
func (Recorder) StatusChange(failed bool) {
	result := "applied"
	if failed {
		result = "failed"
	}
	StatusChangesTotal.WithLabelValues(result).Inc()
}
