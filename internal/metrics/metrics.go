// Package metrics exposes Prometheus instrumentation for the report service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxdoc_reports_generated_total",
			Help: "Total number of reports generated, by output format",
		},
		[]string{"format"},
	)

	ReportFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxdoc_report_failures_total",
			Help: "Total number of report generations that failed fatally",
		},
		[]string{"reason"},
	)

	ConversionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxdoc_conversion_fallbacks_total",
			Help: "Total number of PDF conversions that fell back to DOCX, by stage",
		},
		[]string{"stage"},
	)

	HealRepairs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taxdoc_template_heal_repairs_total",
			Help: "Total number of fragmented placeholder tokens repaired",
		},
	)

	ReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taxdoc_report_duration_seconds",
			Help:    "Duration of report generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
