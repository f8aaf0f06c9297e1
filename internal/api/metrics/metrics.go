// Package metrics defines the custom Prometheus metrics of the clinic API.
// They are registered with the default registry on package load and recorded
// by the HTTP handlers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Identity ──────────────────────────────────────────────────────────────────

// LoginsTotal counts portal logins.
// Labels:
//   - portal: optometrist, doctor or patient
//   - result: success, invalid_credentials, wrong_portal or error
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of portal login attempts, by portal and result.",
	},
	[]string{"portal", "result"},
)

// RegistrationsTotal counts accounts created through the API.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// ── Examinations ──────────────────────────────────────────────────────────────

// ExaminationsCreatedTotal counts intakes.
// Label:
//   - consultant: "assigned" or "unassigned"
var ExaminationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "examinations_created_total",
		Help:      "Total number of examinations created, by whether a consultant was assigned.",
	},
	[]string{"consultant"},
)

var ConsultationsCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consultations_completed_total",
		Help:      "Total number of examinations completed by a consultant.",
	},
)

// ConsultationErrorsTotal counts rejected or failed consultations.
// Label:
//   - reason: not_found, forbidden, already_completed, validation or error
var ConsultationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consultation_errors_total",
		Help:      "Total number of consultations that did not complete, by reason.",
	},
	[]string{"reason"},
)

// ConsultationDuration measures consult_and_complete end to end.
var ConsultationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "consultation_duration_seconds",
		Help:      "Duration of consultation submissions including the store transaction.",
		Buckets:   prometheus.DefBuckets,
	},
)
