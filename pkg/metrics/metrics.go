// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeError          = "error"
	OutcomePasswordPrompt = "password_prompt"
	OutcomeRejected       = "rejected"
)

var (
	// UploadsTotal counts statement uploads by final outcome.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_intake",
		Name:      "uploads_total",
		Help:      "Statement uploads by outcome.",
	}, []string{"outcome"})

	// PasswordAttemptsTotal counts decryption attempts by result.
	PasswordAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_intake",
		Name:      "password_attempts_total",
		Help:      "Password submissions by result.",
	}, []string{"result"})

	// ExtractionDuration observes end-to-end extraction latency.
	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "statement_intake",
		Name:      "extraction_duration_seconds",
		Help:      "Time from extraction start to completion.",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 120},
	})

	// ExtractedRows observes how many rows each successful extraction yields.
	ExtractedRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "statement_intake",
		Name:      "extracted_rows",
		Help:      "Rows per successful extraction.",
		Buckets:   []float64{0, 10, 25, 50, 100, 250, 500, 1000},
	})

	// ActiveSessions gauges the live intake sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "statement_intake",
		Name:      "active_sessions",
		Help:      "Currently live intake sessions.",
	})

	// HTTPRequestsTotal counts API requests by route and status class.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_intake",
		Name:      "http_requests_total",
		Help:      "API requests by route and status.",
	}, []string{"route", "status"})
)
