package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for FlowEvents.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultInvalid  = "invalid"
)

var (
	FlowEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preapproval_flow_events_total",
			Help: "Wizard events handled, by event and result",
		},
		[]string{"event", "result"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preapproval_submissions_total",
			Help: "Loan submissions, by outcome",
		},
		[]string{"outcome"},
	)

	SubmitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "preapproval_submit_duration_seconds",
			Help:    "Latency of the loan-creation call",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func ObserveEvent(event, result string) { FlowEvents.WithLabelValues(event, result).Inc() }

func ObserveSubmission(outcome string, seconds float64) {
	Submissions.WithLabelValues(outcome).Inc()
	SubmitDuration.Observe(seconds)
}
