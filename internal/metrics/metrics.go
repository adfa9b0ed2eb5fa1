// Package metrics exposes the coordinator's Prometheus instruments.
package metrics

import (
	"net/http"
	"time"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Commit outcomes
const (
	OutcomeCommitted = "committed"
	OutcomeConflict  = "conflict"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// CommitsTotal counts business events by outcome.
var CommitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dealerbook",
	Subsystem: "coordinator",
	Name:      "commits_total",
	Help:      "Business events processed by the coordinator, by outcome.",
}, []string{"event", "outcome"})

// CommitDuration tracks how long a business event takes end to end.
var CommitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "dealerbook",
	Subsystem: "coordinator",
	Name:      "commit_duration_seconds",
	Help:      "Duration of coordinator business events.",
	Buckets:   prometheus.DefBuckets,
}, []string{"event"})

// ConflictsTotal counts attempts that lost an optimistic concurrency race.
var ConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dealerbook",
	Subsystem: "coordinator",
	Name:      "conflicts_total",
	Help:      "Coordinator attempts that failed with a version conflict.",
}, []string{"event"})

// Outcome maps an event error to its outcome label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCommitted
	case ierr.IsVersionConflict(err):
		return OutcomeConflict
	case ierr.IsValidation(err), ierr.IsNotFound(err), ierr.IsInvalidOperation(err),
		ierr.IsInvalidAccount(err), ierr.IsInvalidAmount(err), ierr.IsAlreadyExists(err):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

// ObserveCommit records one finished business event
func ObserveCommit(event string, started time.Time, err error) {
	CommitsTotal.WithLabelValues(event, Outcome(err)).Inc()
	CommitDuration.WithLabelValues(event).Observe(time.Since(started).Seconds())
}

// ObserveConflict records a single conflicting attempt
func ObserveConflict(event string) {
	ConflictsTotal.WithLabelValues(event).Inc()
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// NotificationsConsumed counts change notifications read back by the journal.
var NotificationsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dealerbook",
	Subsystem: "journal",
	Name:      "notifications_consumed_total",
	Help:      "Change notifications consumed, by event and result.",
}, []string{"event", "result"})

// ObserveNotification records one consumed change notification
func ObserveNotification(event string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	NotificationsConsumed.WithLabelValues(event, result).Inc()
}
