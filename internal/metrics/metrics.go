// Package metrics defines Prometheus metrics for the back-office service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	// AuditWritesTotal counts audit record writes. outcome is ok, invalid, failed or dropped.
	AuditWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_audit_writes_total",
			Help: "Audit record writes by action, target model and outcome",
		},
		[]string{"action", "target_model", "outcome"},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backoffice_audit_queue_depth",
			Help: "Current asynchronous audit queue depth",
		},
	)

	AuditSearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "backoffice_audit_search_duration_seconds",
			Help:    "Audit search duration in seconds, page and count included",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Audit write outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		AuditWritesTotal, AuditQueueDepth, AuditSearchDuration,
	)
}
