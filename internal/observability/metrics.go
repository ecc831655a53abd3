package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_verify_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_verify_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "collection", "status"},
	)

	// VerificationOutcomes counts orchestrator results by settling layer
	VerificationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_verify_verification_outcomes_total",
			Help: "Verification requests by settling layer and result",
		},
		[]string{"layer", "result"},
	)

	// OCRExtractions counts identifier extraction attempts
	OCRExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_verify_ocr_extractions_total",
			Help: "Identifier extraction attempts by identifier kind and result",
		},
		[]string{"kind", "result"},
	)

	// OCRDuration tracks OCR engine latency
	OCRDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "app_verify_ocr_duration_seconds",
			Help:    "Duration of OCR runs in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// ImageComparisons counts image comparator results
	ImageComparisons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_verify_image_comparisons_total",
			Help: "Image comparisons by method and result",
		},
		[]string{"method", "result"},
	)

	// WhitelistChecks counts whitelist decisions
	WhitelistChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_verify_whitelist_checks_total",
			Help: "Whitelist checks by result",
		},
		[]string{"result"},
	)

	// CaseDecisions counts admin decisions
	CaseDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_verify_case_decisions_total",
			Help: "Verification case decisions",
		},
		[]string{"decision"},
	)

	// PendingCases tracks open verification cases known to this instance
	PendingCases = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_verify_pending_cases",
			Help: "Number of verification cases awaiting admin review",
		},
	)

	// LivenessWarnings counts warning tracker warnings
	LivenessWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_verify_liveness_warnings_total",
			Help: "Liveness warnings by violation type",
		},
		[]string{"violation_type"},
	)

	// InvalidatedVotes counts vote invalidations
	InvalidatedVotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_verify_invalidated_votes_total",
			Help: "Votes invalidated by violation type",
		},
		[]string{"violation_type"},
	)

	// FraudFlags counts sessions whose pattern score crossed the fraud threshold
	FraudFlags = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "app_verify_fraud_flags_total",
			Help: "Pattern analyses that reported fraud",
		},
	)

	// ActiveSessions tracks open liveness sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_verify_active_liveness_sessions",
			Help: "Number of active liveness sessions",
		},
	)

	// WorkerQueueDepth tracks jobs waiting in the verification worker pool
	WorkerQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_verify_worker_queue_depth",
			Help: "Jobs waiting in the verification worker pool",
		},
	)

	// TasksProcessed counts background tasks handled by the worker
	TasksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_verify_tasks_processed_total",
			Help: "Background tasks processed by type and status",
		},
		[]string{"type", "status"},
	)

	// TaskEnqueueFailures counts tasks that could not be enqueued
	TaskEnqueueFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_verify_task_enqueue_failures_total",
			Help: "Background tasks that failed to enqueue",
		},
		[]string{"type"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_verify_active_connections",
			Help: "Number of active connections",
		},
	)
)

// BoolLabel renders a result label.
func BoolLabel(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
