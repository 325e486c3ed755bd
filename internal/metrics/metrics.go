package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vibe_gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_gallery_db_queries_total",
			Help: "Total number of catalog database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vibe_gallery_db_query_duration_seconds",
			Help:    "Catalog database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vibe_gallery_db_transaction_duration_seconds",
			Help:    "Catalog database transaction duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"type"},
	)
)

// Scanner metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_gallery_scan_runs_total",
			Help: "Total number of reconciliation passes started",
		},
	)

	ScanBusyTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_gallery_scan_busy_total",
			Help: "Scan attempts rejected because a pass was already running",
		},
	)

	ScanIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_gallery_scan_is_running",
			Help: "Whether a reconciliation pass is currently running (1) or not (0)",
		},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vibe_gallery_scan_duration_seconds",
			Help:    "Duration of completed reconciliation passes in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
	)

	ScanErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_gallery_scan_errors_total",
			Help: "Total number of reconciliation passes that failed",
		},
	)

	ScanItemsChanged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_gallery_scan_items_changed_total",
			Help: "Catalog rows added and removed by reconciliation passes",
		},
		[]string{"level", "change"},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibe_gallery_thumbnail_generations_total",
			Help: "Total number of thumbnail generation attempts",
		},
		[]string{"type", "status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vibe_gallery_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"type"},
	)

	ThumbnailSweepCycles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_gallery_thumbnail_sweep_cycles_total",
			Help: "Total number of completed thumbnail sweep cycles",
		},
	)

	ThumbnailSweepErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_gallery_thumbnail_sweep_errors_total",
			Help: "Total number of thumbnail sweep cycles that failed",
		},
	)
)

// WebSocket metrics
var (
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibe_gallery_websocket_clients",
			Help: "Number of connected scan-progress WebSocket clients",
		},
	)

	WebSocketMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_gallery_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages broadcast to clients",
		},
	)
)
