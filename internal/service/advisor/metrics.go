package advisor

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
)

// Model failure reasons reported on advisor_model_failures_total.
const (
	FailureUnconfigured = "unconfigured"
	FailureError        = "error"
	FailureTimeout      = "timeout"
	FailureEmpty        = "empty"
)

type metrics struct {
	replies      *prometheus.CounterVec
	failures     *prometheus.CounterVec
	modelLatency prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_replies_total",
			Help: "Replies returned by the advisor, by producing stage.",
		}, []string{"source"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_model_failures_total",
			Help: "Model stage soft failures that fell through to the rule responder.",
		}, []string{"reason"}),
		modelLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "advisor_model_latency_seconds",
			Help:    "Latency of external model calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		}),
	}

	for _, source := range []chat.Source{chat.SourceFAQ, chat.SourceModel, chat.SourceRule} {
		m.replies.WithLabelValues(string(source))
	}
	for _, reason := range []string{FailureUnconfigured, FailureError, FailureTimeout, FailureEmpty} {
		m.failures.WithLabelValues(reason)
	}

	if reg != nil {
		reg.MustRegister(m.replies, m.failures, m.modelLatency)
	}
	return m
}
