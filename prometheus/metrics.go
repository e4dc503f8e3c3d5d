package prometheus

import (
	"time"

	"warehouse-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Reservation metrics
	ReservationOperationsCounter prometheus.CounterVec
	InsufficientStockCounter     prometheus.Counter
	ConcurrencyConflictCounter   prometheus.Counter
	ReservationsExpiredCounter   prometheus.Counter

	// Stock movement metrics
	UnitsReceivedCounter prometheus.Counter
	UnitsDamagedCounter  prometheus.Counter

	// Grosir tolerance metrics
	VariantLockCounter prometheus.CounterVec

	// Alerting metrics
	StockAlertsCounter prometheus.CounterVec

	// Outbox relay metrics
	OutboxPublishedCounter     prometheus.Counter
	OutboxPublishErrorsCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Reservation metrics
	ReservationOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_reservation_operations_total",
			Help: "Total number of reservation operations",
		},
		[]string{"operation"},
	)

	InsufficientStockCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_insufficient_stock_total",
			Help: "Total number of reservations rejected for insufficient stock",
		},
	)

	ConcurrencyConflictCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_concurrency_conflicts_total",
			Help: "Total number of optimistic lock conflicts on stock updates",
		},
	)

	ReservationsExpiredCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_reservations_expired_total",
			Help: "Total number of reservations released by the expiry sweeper",
		},
	)

	// Stock movement metrics
	UnitsReceivedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_units_received_total",
			Help: "Total number of units received from purchase orders",
		},
	)

	UnitsDamagedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_units_damaged_total",
			Help: "Total number of damaged units reported on receipt",
		},
	)

	// Grosir tolerance metrics
	VariantLockCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_variant_lock_transitions_total",
			Help: "Total number of variant lock state transitions",
		},
		[]string{"action"},
	)

	// Alerting metrics
	StockAlertsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_stock_alerts_total",
			Help: "Total number of stock alerts raised",
		},
		[]string{"alert_type"},
	)

	// Outbox relay metrics
	OutboxPublishedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_outbox_published_total",
			Help: "Total number of outbox events published to the broker",
		},
	)

	OutboxPublishErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_outbox_publish_errors_total",
			Help: "Total number of outbox publish failures",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordReservationOperation increments the counter for reservation operations
func RecordReservationOperation(operation string) {
	ReservationOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordVariantLock increments the counter for variant lock transitions
func RecordVariantLock(action string) {
	VariantLockCounter.WithLabelValues(action).Inc()
}

// RecordStockAlert increments the counter for raised stock alerts
func RecordStockAlert(alertType string) {
	StockAlertsCounter.WithLabelValues(alertType).Inc()
}
