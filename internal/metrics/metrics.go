package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// InvoiceNumberFallbacks counts allocator transactions that degraded
	// to a timestamp-based invoice number
	InvoiceNumberFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invoice_number_fallbacks_total",
			Help: "Total number of invoice number allocations that fell back to a timestamp identifier",
		},
	)

	// OverdueSweepTransitions counts invoices moved pending -> overdue by the sweep
	OverdueSweepTransitions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "overdue_sweep_transitions_total",
			Help: "Total number of invoices transitioned to overdue by the sweep",
		},
	)
)
