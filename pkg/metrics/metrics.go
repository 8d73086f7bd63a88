package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса.
// Все метрики имеют label "service", чтобы несколько сервисов SMC
// могли писать в общий Prometheus без коллизий имен.
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	dbPoolOpenConns *prometheus.GaugeVec
	dbPoolInUse     *prometheus.GaugeVec
	dbPoolIdle      *prometheus.GaugeVec
	dbPoolWaitCount *prometheus.GaugeVec

	wizardSessionsTotal     *prometheus.CounterVec
	bookingSubmissionsTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в дефолтном Prometheus registry
func New(serviceName string) *Metrics {
	return &Metrics{
		serviceName: serviceName,

		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"service", "operation"}),

		dbPoolOpenConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_open_connections",
			Help: "Number of open connections in the pool",
		}, []string{"service"}),

		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections",
			Help: "Number of idle connections in the pool",
		}, []string{"service"}),

		dbPoolWaitCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		wizardSessionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_sessions_total",
			Help: "Total number of wizard sessions by lifecycle event",
		}, []string{"service", "event"}),

		bookingSubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_submissions_total",
			Help: "Total number of booking submissions by result",
		}, []string{"service", "result"}),
	}
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(service, method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(service, method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает метрики запроса к БД
func (m *Metrics) ObserveDBQuery(service, operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(service, operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// SetDBPoolStats публикует статистику connection pool
func (m *Metrics) SetDBPoolStats(service string, stats sql.DBStats) {
	m.dbPoolOpenConns.WithLabelValues(service).Set(float64(stats.OpenConnections))
	m.dbPoolInUse.WithLabelValues(service).Set(float64(stats.InUse))
	m.dbPoolIdle.WithLabelValues(service).Set(float64(stats.Idle))
	m.dbPoolWaitCount.WithLabelValues(service).Set(float64(stats.WaitCount))
}

// IncWizardSession инкрементирует счетчик событий жизненного цикла сессий
// (started, confirmed, cancelled, expired)
func (m *Metrics) IncWizardSession(service, event string) {
	m.wizardSessionsTotal.WithLabelValues(service, event).Inc()
}

// IncBookingSubmission инкрементирует счетчик отправок бронирования
// (result: success, rejected, error)
func (m *Metrics) IncBookingSubmission(service, result string) {
	m.bookingSubmissionsTotal.WithLabelValues(service, result).Inc()
}

// WizardSessionEvent инкрементирует счетчик событий сессий для сервиса,
// имя которого было передано в New
func (m *Metrics) WizardSessionEvent(event string) {
	m.IncWizardSession(m.serviceName, event)
}

// BookingSubmissionResult инкрементирует счетчик отправок для сервиса,
// имя которого было передано в New
func (m *Metrics) BookingSubmissionResult(result string) {
	m.IncBookingSubmission(m.serviceName, result)
}
