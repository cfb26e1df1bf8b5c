package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ItemsProcessed tracks items ingested successfully
	ItemsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docqueue_items_processed_total",
			Help: "Total number of queue items processed successfully",
		},
	)

	// ItemsFailed tracks permanently failed items by failure kind
	ItemsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqueue_items_failed_total",
			Help: "Total number of queue items that failed permanently",
		},
		[]string{"kind"},
	)

	// Retries tracks timeout retries of the head item
	Retries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docqueue_retries_total",
			Help: "Total number of timeout retries",
		},
	)

	// BackoffSeconds tracks the pauses taken before retries
	BackoffSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docqueue_backoff_seconds",
			Help:    "Backoff pause before retrying a timed out item",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	// QueueLength tracks the number of pending items seen at the last read
	QueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docqueue_queue_length",
			Help: "Number of pending items in the queue",
		},
	)

	// ProcessLatency tracks ingestion call latency per transport
	ProcessLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docqueue_process_latency_seconds",
			Help:    "Ingestion call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"transport", "outcome"},
	)

	// DrainRuns tracks drain runs by their final status
	DrainRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqueue_drain_runs_total",
			Help: "Total number of drain runs",
		},
		[]string{"status"},
	)

	// JournalErrors tracks failures to record a failed item
	JournalErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docqueue_journal_errors_total",
			Help: "Total number of failure journal write errors",
		},
	)
)
