// Package metrics defines the Prometheus instrumentation for the
// document platform.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for document operations.
type Metrics struct {
	DocumentsIssued    *prometheus.CounterVec
	IssueDuration      prometheus.Histogram
	MRZTruncations     prometheus.Counter
	RendersAttached    prometheus.Counter
	VerificationChecks *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Passing
// prometheus.DefaultRegisterer wires them to the default /metrics
// exposition; tests pass a private registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DocumentsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cividoc_documents_issued_total",
			Help: "Total number of documents issued, labeled by document type",
		}, []string{"document_type"}),
		IssueDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cividoc_issue_duration_seconds",
			Help:    "Latency of document issuance in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		MRZTruncations: factory.NewCounter(prometheus.CounterOpts{
			Name: "cividoc_mrz_truncations_total",
			Help: "Total number of issued documents with truncated MRZ fields",
		}),
		RendersAttached: factory.NewCounter(prometheus.CounterOpts{
			Name: "cividoc_renders_attached_total",
			Help: "Total number of rendered PDFs attached to documents",
		}),
		VerificationChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cividoc_verification_checks_total",
			Help: "Total number of verification checks, labeled by kind and result",
		}, []string{"kind", "result"}),
	}
}

// ObserveIssue records one issued document with its latency and
// whether any MRZ field was truncated.
func (m *Metrics) ObserveIssue(documentType string, seconds float64, truncated bool) {
	m.DocumentsIssued.WithLabelValues(documentType).Inc()
	m.IssueDuration.Observe(seconds)
	if truncated {
		m.MRZTruncations.Inc()
	}
}

// ObserveVerification records one verification check outcome.
func (m *Metrics) ObserveVerification(kind string, valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.VerificationChecks.WithLabelValues(kind, result).Inc()
}
