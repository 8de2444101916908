package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 预订创建数
	reservationsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total number of reservations created",
		},
	)

	// 预订状态流转数
	reservationTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_transitions_total",
			Help: "Total number of reservation status transitions",
		},
		[]string{"status"}, // confirmed, pickedUp, returned, ...
	)

	// 模板保存版本数
	templateVersionsSavedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "template_versions_saved_total",
			Help: "Total number of template versions saved",
		},
	)

	// 模板 PDF 预览渲染数
	templatePreviewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "template_previews_total",
			Help: "Total number of template PDF previews rendered",
		},
	)

	// 数据库连接数
	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	databaseConnectionsMax = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_max",
			Help: "Maximum number of database connections",
		},
	)

	// 预订状态分布
	reservationsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reservations_by_status",
			Help: "Number of reservations by status",
		},
		[]string{"status"},
	)

	// 在线 WebSocket 客户端数
	websocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Number of connected websocket clients",
		},
	)
)

var (
	once sync.Once
)

func init() {
	// 注册指标
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(reservationsCreatedTotal)
	prometheus.MustRegister(reservationTransitionsTotal)
	prometheus.MustRegister(templateVersionsSavedTotal)
	prometheus.MustRegister(templatePreviewsTotal)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(databaseConnectionsMax)
	prometheus.MustRegister(reservationsByStatus)
	prometheus.MustRegister(websocketClients)

	// 注册 Go 运行时指标（只注册一次）
	once.Do(func() {
		// 尝试注册 Go 运行时指标，如果已注册则忽略错误
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordReservationCreated 记录预订创建
func RecordReservationCreated() {
	reservationsCreatedTotal.Inc()
}

// RecordReservationTransition 记录预订状态流转
func RecordReservationTransition(status string) {
	reservationTransitionsTotal.WithLabelValues(status).Inc()
}

// RecordTemplateVersionSaved 记录模板版本保存
func RecordTemplateVersionSaved() {
	templateVersionsSavedTotal.Inc()
}

// RecordTemplatePreview 记录模板预览渲染
func RecordTemplatePreview() {
	templatePreviewsTotal.Inc()
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	databaseConnectionsMax.Set(float64(stats.MaxOpenConnections))

	return nil
}

// UpdateReservationsByStatus 更新预订状态分布指标
func UpdateReservationsByStatus(status string, count float64) {
	reservationsByStatus.WithLabelValues(status).Set(count)
}

// UpdateWebsocketClients 更新在线客户端数指标
func UpdateWebsocketClients(count int) {
	websocketClients.Set(float64(count))
}
