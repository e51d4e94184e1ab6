// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration outcomes
const (
	ResultAccepted  = "accepted"
	ResultDuplicate = "duplicate"
	ResultInvalid   = "invalid"
	ResultError     = "error"
)

var (
	SessionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkin",
		Name:      "session_events_total",
		Help:      "Session lifecycle transitions by event (started, ended).",
	}, []string{"event"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkin",
		Name:      "registrations_total",
		Help:      "Registration attempts by result.",
	}, []string{"result"})

	IPLookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkin",
		Name:      "ip_lookup_failures_total",
		Help:      "Client address lookups that fell back to unknown.",
	})

	LiveViewers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "checkin",
		Name:      "live_viewers",
		Help:      "Connected live viewers by role.",
	}, []string{"role"})

	SnapshotsPushed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkin",
		Name:      "snapshots_pushed_total",
		Help:      "Full snapshots pushed to live viewers by message type.",
	}, []string{"type"})
)
