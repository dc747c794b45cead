// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolve results.
const (
	ResolveNew    = "new"
	ResolveMiss   = "miss"
	ResolveLoaded = "loaded"
	ResolveStale  = "expired"
	ResolveBogus  = "malformed"
)

// SessionsResolved counts resolved tokens by result.
// Use RegisterMetrics to register this with a Prometheus registry.
var SessionsResolved = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assoplat_sessions_resolved_total",
		Help: "Total number of resolved session tokens by result",
	},
	[]string{"result"},
)

// SessionsPersisted counts persist calls by whether a write happened.
// Use RegisterMetrics to register this with a Prometheus registry.
var SessionsPersisted = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assoplat_sessions_persisted_total",
		Help: "Total number of session persist calls by whether storage was written",
	},
	[]string{"write"},
)

// SessionsSwept counts expired sessions removed by the sweeper.
// Use RegisterMetrics to register this with a Prometheus registry.
var SessionsSwept = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "assoplat_sessions_swept_total",
		Help: "Total number of expired sessions deleted",
	},
)

// RegisterMetrics registers session metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(SessionsResolved)
	reg.MustRegister(SessionsPersisted)
	reg.MustRegister(SessionsSwept)
}

func recordPersist(wrote bool) {
	if wrote {
		SessionsPersisted.WithLabelValues("true").Inc()
		return
	}
	SessionsPersisted.WithLabelValues("false").Inc()
}
