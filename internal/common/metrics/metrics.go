// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_queries_total",
			Help: "Total number of natural-language queries dispatched, by intent and outcome",
		},
		[]string{"intent", "status"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "insights_query_duration_seconds",
			Help: "Duration of one dispatch pass in seconds",
		},
		[]string{"intent"},
	)

	IngestBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_ingest_batches_total",
			Help: "Total number of upload batches processed, by outcome",
		},
		[]string{"status"},
	)

	IngestRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "insights_ingest_records_total",
			Help: "Total number of records upserted into the store",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_http_requests_total",
			Help: "Total number of HTTP requests, by path and status code",
		},
		[]string{"path", "status"},
	)
)
