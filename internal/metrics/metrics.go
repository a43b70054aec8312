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

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SalesWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ventaspro_sales_written_total",
			Help: "Sales persisted, by operation and whether a commission rule matched",
		},
		[]string{"operation", "rule_matched"},
	)

	CommissionRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ventaspro_commission_runs_total",
			Help: "Period aggregation runs",
		},
	)

	SummariesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ventaspro_commission_summaries_created_total",
			Help: "Commission summary rows written by period aggregation",
		},
	)
)
