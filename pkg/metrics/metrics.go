// Package metrics provides Prometheus metrics for the fern service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncStepsTotal tracks synchronizer step outcomes by step and status
	SyncStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "sync",
			Name:      "steps_total",
			Help:      "Total number of synchronizer steps by step and status",
		},
		[]string{"step", "status"},
	)

	// SyncDuration tracks the duration of a full enrichment run per event
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of full enrichment runs in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	// DartRequestsTotal tracks outbound DART API requests
	DartRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "dart",
			Name:      "requests_total",
			Help:      "Total number of outbound DART API requests",
		},
		[]string{"endpoint", "status_code"},
	)

	// DartRequestDuration tracks outbound DART API request duration
	DartRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "dart",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound DART API requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"endpoint"},
	)

	// EventsConsumedTotal tracks partner-registration events consumed by outcome
	EventsConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "consumer",
			Name:      "events_total",
			Help:      "Total number of partner-registration events consumed by outcome",
		},
		[]string{"outcome"},
	)

	// RefreshCyclesTotal tracks periodic refresh cycles by status
	RefreshCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "refresh",
			Name:      "cycles_total",
			Help:      "Total number of periodic refresh cycles by status",
		},
		[]string{"status"},
	)

	// RefreshCompaniesTotal tracks companies refreshed by the periodic trigger
	RefreshCompaniesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "refresh",
			Name:      "companies_total",
			Help:      "Total number of companies processed by periodic refresh",
		},
	)
)
