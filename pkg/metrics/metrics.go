package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 存储网关操作延迟（秒）
	StorageOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_op_duration_seconds",
			Help:    "Storage gateway operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"op", "key"},
	)

	// 存储网关失败计数（读失败回退为空集合，写失败只记录）
	StorageErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_error_count",
			Help: "Total number of storage gateway failures",
		},
		[]string{"op", "key"},
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of slow PostgreSQL queries",
		},
	)

	SlowQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "db_slow_query_duration_seconds",
			Help:    "Duration of slow PostgreSQL queries in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
		},
	)

	// 登记的捐献者
	DonorRegisteredCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "donor_registered_count",
			Help: "Total number of donors registered",
		},
	)

	// 用血请求，按紧急程度
	RequestSubmittedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "request_submitted_count",
			Help: "Total number of blood requests logged",
		},
		[]string{"urgency"},
	)

	// 每次匹配得到的捐献者数量
	MatchResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "match_result_size",
			Help:    "Number of compatible donors returned per match",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"blood"},
	)

	// 通知计数
	NotificationRecordedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_recorded_count",
			Help: "Total number of notifications recorded",
		},
		[]string{"level"},
	)

	// 紧急通知（模拟短信）发送计数
	DonorAlertCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donor_alert_count",
			Help: "Total number of simulated donor alerts",
		},
		[]string{"status"}, // status: published, delivered, duplicate, failed
	)

	// outbox 事件发布计数
	OutboxEventCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_event_count",
			Help: "Total number of outbox events by routing key and status",
		},
		[]string{"routing_key", "status"}, // status: queued, dropped, published, failed
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordStorageOp 记录存储操作延迟
func RecordStorageOp(op, key string, duration time.Duration) {
	StorageOpDuration.WithLabelValues(op, key).Observe(duration.Seconds())
}

// IncrementStorageError 增加存储失败计数
func IncrementStorageError(op, key string) {
	StorageErrorCount.WithLabelValues(op, key).Inc()
}

// IncrementSlowQuery 记录一次慢查询
func IncrementSlowQuery(duration time.Duration) {
	SlowQueryCount.Inc()
	SlowQueryDuration.Observe(duration.Seconds())
}

// IncrementDonorRegistered 增加捐献者登记计数
func IncrementDonorRegistered() {
	DonorRegisteredCount.Inc()
}

// IncrementRequestSubmitted 增加用血请求计数
func IncrementRequestSubmitted(urgency string) {
	RequestSubmittedCount.WithLabelValues(urgency).Inc()
}

// RecordMatchResult 记录匹配结果大小
func RecordMatchResult(blood string, size int) {
	MatchResultSize.WithLabelValues(blood).Observe(float64(size))
}

// IncrementNotification 增加通知计数
func IncrementNotification(level string) {
	NotificationRecordedCount.WithLabelValues(level).Inc()
}

// IncrementDonorAlert 增加紧急通知计数
func IncrementDonorAlert(status string) {
	DonorAlertCount.WithLabelValues(status).Inc()
}

// IncrementOutboxEvent 增加 outbox 事件计数
func IncrementOutboxEvent(routingKey, status string) {
	OutboxEventCount.WithLabelValues(routingKey, status).Inc()
}
