// Package metrics holds the Prometheus collectors for the registration flow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Shivanand-hulikatti/event-registration/internal/model"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Submissions          *prometheus.CounterVec
	ReconcileDuration    *prometheus.HistogramVec
	ConfirmationFailures prometheus.Counter
	Retries              prometheus.Counter
}

// New creates and registers all metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_submissions_total",
			Help: "Registration submissions by terminal outcome",
		}, []string{"outcome"}),
		ReconcileDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registration_reconcile_duration_seconds",
			Help:    "Time from background start to terminal state",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		ConfirmationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "registration_confirmation_failures_total",
			Help: "Confirmation dispatches that failed after a committed registration",
		}),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Name: "registration_retries_total",
			Help: "User-initiated reconciliation retries",
		}),
	}
}

// ObserveOutcome counts one terminal outcome.
func (m *Metrics) ObserveOutcome(kind model.OutcomeKind) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(string(kind)).Inc()
}

// ObserveReconcile records a finished reconciliation.
func (m *Metrics) ObserveReconcile(kind model.OutcomeKind, d time.Duration) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(string(kind)).Inc()
	m.ReconcileDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

// IncConfirmationFailures counts a failed confirmation dispatch.
func (m *Metrics) IncConfirmationFailures() {
	if m == nil {
		return
	}
	m.ConfirmationFailures.Inc()
}

// IncRetries counts a user-initiated retry.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}
