// Package metrics exposes Prometheus counters for the two workflow engines.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReviewDecisions counts committed member review outcomes by decision.
	ReviewDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "member_review_decisions_total",
		Help: "Committed member review decisions.",
	}, []string{"decision"})

	// RepresentationTransitions counts representation lifecycle events
	// (created, confirmed, declined).
	RepresentationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "representation_transitions_total",
		Help: "Representation request lifecycle transitions.",
	}, []string{"transition"})

	// OverduePending is the size of the last overdue sweep result.
	OverduePending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "representation_overdue_pending",
		Help: "Pending representation requests past the staleness threshold at the last sweep.",
	})
)
