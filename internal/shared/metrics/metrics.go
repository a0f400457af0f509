// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "guildkeeper"

var (
	TicketTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticket_transitions_total",
		Help:      "Ticket lifecycle operations by action and outcome.",
	}, []string{"action", "outcome"})

	AnalyticsWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_writes_total",
		Help:      "Analytics table writes by table and outcome.",
	}, []string{"table", "outcome"})

	SideEffectFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "side_effect_failures_total",
		Help:      "Best-effort side effects that failed and were swallowed.",
	}, []string{"name"})

	ActivityColumn = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticket_activity_column_total",
		Help:      "Ticket activity updates by the column that accepted the write.",
	}, []string{"column"})

	BulkItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_items_total",
		Help:      "Items processed by bulk ticket operations by outcome.",
	}, []string{"outcome"})

	// failuresSinceSnapshot feeds server_health.error_count.
	failuresSinceSnapshot atomic.Int64
)

func init() {
	prometheus.MustRegister(
		TicketTransitions,
		AnalyticsWrites,
		SideEffectFailures,
		ActivityColumn,
		BulkItems,
	)
}

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Outcome maps an error to the success/failure label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// RecordSideEffectFailure counts a swallowed failure.
func RecordSideEffectFailure(name string) {
	SideEffectFailures.WithLabelValues(name).Inc()
	failuresSinceSnapshot.Add(1)
}

// TakeFailureCount returns the failures recorded since the previous call and
// resets the counter.
func TakeFailureCount() int64 {
	return failuresSinceSnapshot.Swap(0)
}
