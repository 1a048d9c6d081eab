package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec

	dbPoolOpen  *prometheus.GaugeVec
	dbPoolInUse *prometheus.GaugeVec
	dbPoolIdle  *prometheus.GaugeVec

	sweepRunsTotal     *prometheus.CounterVec
	sweepUpdatedTotal  *prometheus.CounterVec
	sweepFailuresTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в default-регистре
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),

		dbQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		dbPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),

		sweepRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_status_sweep_runs_total",
			Help:        "Total number of booking status sweep passes",
			ConstLabels: constLabels,
		}, []string{"pass"}),

		sweepUpdatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_status_sweep_updated_total",
			Help:        "Total number of bookings transitioned by the sweep",
			ConstLabels: constLabels,
		}, []string{"pass"}),

		sweepFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_status_sweep_failures_total",
			Help:        "Total number of per-booking sweep failures",
			ConstLabels: constLabels,
		}, []string{"pass"}),
	}
}

// ObserveHTTPRequest фиксирует завершённый HTTP-запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет gauge-метрики connection pool
func (m *Metrics) SetDBPoolStats(dbName string, stats sql.DBStats) {
	m.dbPoolOpen.WithLabelValues(dbName).Set(float64(stats.OpenConnections))
	m.dbPoolInUse.WithLabelValues(dbName).Set(float64(stats.InUse))
	m.dbPoolIdle.WithLabelValues(dbName).Set(float64(stats.Idle))
}

// ObserveSweepPass фиксирует проход sweep-воркера
func (m *Metrics) ObserveSweepPass(pass string, updated, failures int) {
	m.sweepRunsTotal.WithLabelValues(pass).Inc()
	m.sweepUpdatedTotal.WithLabelValues(pass).Add(float64(updated))
	m.sweepFailuresTotal.WithLabelValues(pass).Add(float64(failures))
}
