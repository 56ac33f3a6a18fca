// Package metrics содержит prometheus-метрики сервиса: HTTP, БД и бизнес-события.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор коллекторов сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// База данных
	DBQueryDuration *prometheus.HistogramVec
	DBPoolOpen      prometheus.Gauge
	DBPoolInUse     prometheus.Gauge
	DBPoolIdle      prometheus.Gauge

	// Бизнес-события
	BookingsCreatedTotal   prometheus.Counter
	BookingConflictsTotal  prometheus.Counter
	BookingsCancelledTotal *prometheus.CounterVec
	SlotQueriesTotal       prometheus.Counter
	TxRetriesTotal         prometheus.Counter
}

// New регистрирует и возвращает метрики сервиса
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by method, path and status code.",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by method and path.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		HTTPRequestsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being served.",
			ConstLabels: labels,
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency by operation.",
			ConstLabels: labels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		DBPoolOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Open connections in the database pool.",
			ConstLabels: labels,
		}),

		DBPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Connections currently in use.",
			ConstLabels: labels,
		}),

		DBPoolIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Idle connections in the database pool.",
			ConstLabels: labels,
		}),

		BookingsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Total number of successfully created bookings.",
			ConstLabels: labels,
		}),

		BookingConflictsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Total number of reservation attempts rejected because the slot was taken.",
			ConstLabels: labels,
		}),

		BookingsCancelledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_cancelled_total",
			Help:        "Total number of cancelled bookings by initiator.",
			ConstLabels: labels,
		}, []string{"by"}),

		SlotQueriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "slot_queries_total",
			Help:        "Total number of available-slot queries.",
			ConstLabels: labels,
		}),

		TxRetriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "tx_retries_total",
			Help:        "Total number of transparently retried transactions.",
			ConstLabels: labels,
		}),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP-запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет gauge-метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	m.DBPoolOpen.Set(float64(open))
	m.DBPoolInUse.Set(float64(inUse))
	m.DBPoolIdle.Set(float64(idle))
}

// IncBookingsCreated инкрементирует счетчик созданных бронирований
func (m *Metrics) IncBookingsCreated() {
	m.BookingsCreatedTotal.Inc()
}

// IncBookingConflicts инкрементирует счетчик отклоненных из-за занятости попыток
func (m *Metrics) IncBookingConflicts() {
	m.BookingConflictsTotal.Inc()
}

// IncBookingsCancelled инкрементирует счетчик отмен по инициатору
func (m *Metrics) IncBookingsCancelled(initiator string) {
	m.BookingsCancelledTotal.WithLabelValues(initiator).Inc()
}

// IncSlotQueries инкрементирует счетчик запросов доступных слотов
func (m *Metrics) IncSlotQueries() {
	m.SlotQueriesTotal.Inc()
}

// IncTxRetries инкрементирует счетчик повторенных транзакций
func (m *Metrics) IncTxRetries() {
	m.TxRetriesTotal.Inc()
}

// Nop коллектор-заглушка для запуска с выключенными метриками
type Nop struct{}

func (Nop) IncBookingsCreated()         {}
func (Nop) IncBookingConflicts()        {}
func (Nop) IncBookingsCancelled(string) {}
func (Nop) IncSlotQueries()             {}
func (Nop) IncTxRetries()               {}
