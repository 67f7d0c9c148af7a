// Package metrics provides Prometheus metrics for the HTTP surface and for
// registration activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventhub"

// Registration outcomes.
const (
	OutcomeRegistered   = "registered"
	OutcomeRejected     = "rejected"
	OutcomeUnregistered = "unregistered"
	OutcomeDenied       = "denied"
	OutcomeError        = "error"
)

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Domain metrics
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "registrations_total",
			Help:      "Registration and unregistration attempts by outcome",
		},
		[]string{"outcome"},
	)

	EventsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "created_total",
			Help:      "Events created",
		},
	)

	EventsApprovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "approved_total",
			Help:      "Events approved by an administrator",
		},
	)

	CascadeDeletedEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "users",
			Name:      "cascade_deleted_events_total",
			Help:      "Events removed because their organizer was deleted",
		},
	)
)

// RecordRegistration increments the registration counter for outcome.
func RecordRegistration(outcome string) {
	RegistrationsTotal.WithLabelValues(outcome).Inc()
}
