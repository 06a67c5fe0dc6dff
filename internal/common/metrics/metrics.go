// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardiochat_answers_total",
			Help: "Total number of answers submitted to the form engine",
		},
		[]string{"field", "outcome"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardiochat_submissions_total",
			Help: "Total number of answer sets submitted for prediction",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardiochat_submission_duration_seconds",
			Help:    "Duration of prediction calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	SubmissionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardiochat_submissions_in_flight",
			Help: "Number of prediction calls currently outstanding",
		},
	)

	PredictionRequestsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardiochat_mock_predictions_total",
			Help: "Total number of prediction requests answered by the mock service",
		},
		[]string{"mode", "risk_level"},
	)
)

// Answer outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Submission outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomeTransportFailure = "transport_failure"
	OutcomeServiceError     = "service_error"
	OutcomeNoExplanation    = "no_explanation"
	OutcomeRejectedRequest  = "request_rejected"
)
