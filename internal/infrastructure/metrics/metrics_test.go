package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveEvent(t *testing.T) {
	before := testutil.ToFloat64(FlowEvents.WithLabelValues("next", ResultRejected))
	ObserveEvent("next", ResultRejected)
	ObserveEvent("next", ResultRejected)
	assert.Equal(t, before+2, testutil.ToFloat64(FlowEvents.WithLabelValues("next", ResultRejected)))
}

func TestObserveSubmission(t *testing.T) {
	before := testutil.ToFloat64(Submissions.WithLabelValues("failed"))

	ObserveSubmission("failed", 0.25)

	assert.Equal(t, before+1, testutil.ToFloat64(Submissions.WithLabelValues("failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(SubmitDuration))
}
