package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsExist(t *testing.T) {
	assert.NotNil(t, RequestDuration)
	assert.NotNil(t, DatabaseOperations)
	assert.NotNil(t, VerificationOutcomes)
	assert.NotNil(t, OCRExtractions)
	assert.NotNil(t, OCRDuration)
	assert.NotNil(t, ImageComparisons)
	assert.NotNil(t, WhitelistChecks)
	assert.NotNil(t, CaseDecisions)
	assert.NotNil(t, PendingCases)
	assert.NotNil(t, LivenessWarnings)
	assert.NotNil(t, InvalidatedVotes)
	assert.NotNil(t, FraudFlags)
	assert.NotNil(t, ActiveSessions)
	assert.NotNil(t, WorkerQueueDepth)
	assert.NotNil(t, TasksProcessed)
	assert.NotNil(t, TaskEnqueueFailures)
	assert.NotNil(t, ActiveConnections)
}

func TestVerificationOutcomesCounter(t *testing.T) {
	before := testutil.ToFloat64(VerificationOutcomes.WithLabelValues("1", "verified"))
	VerificationOutcomes.WithLabelValues("1", "verified").Inc()
	after := testutil.ToFloat64(VerificationOutcomes.WithLabelValues("1", "verified"))
	assert.Equal(t, before+1, after)
}

func TestPendingCasesGauge(t *testing.T) {
	PendingCases.Set(3)
	PendingCases.Dec()
	assert.Equal(t, float64(2), testutil.ToFloat64(PendingCases))
}

func TestRequestDuration(t *testing.T) {
	RequestDuration.WithLabelValues("/v1/verification/verify", "POST", "200").Observe(0.5)
	RequestDuration.WithLabelValues("/health", "GET", "200").Observe(0.01)
}

func TestBoolLabel(t *testing.T) {
	assert.Equal(t, "matched", BoolLabel(true, "matched", "unmatched"))
	assert.Equal(t, "unmatched", BoolLabel(false, "matched", "unmatched"))
}
