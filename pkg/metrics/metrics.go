package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передаётся nil.
type Metrics struct {
	service string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec

	bookingsCreated    *prometheus.CounterVec
	slotConflicts      *prometheus.CounterVec
	bookingTransitions *prometheus.CounterVec
	bookingsCompleted  *prometheus.CounterVec
	cacheRequests      *prometheus.CounterVec
	eventsPublished    *prometheus.CounterVec
}

// New создает метрики и регистрирует их в DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		service: serviceName,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Database query errors",
		}, []string{"service", "operation"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created in pending state",
		}, []string{"service"}),
		slotConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_slot_conflicts_total",
			Help: "Create attempts rejected because the slot was taken",
		}, []string{"service"}),
		bookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Booking status transitions",
		}, []string{"service", "from", "to"}),
		bookingsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_completed_by_sweep_total",
			Help: "Confirmed bookings marked completed by the sweeper",
		}, []string{"service"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_cache_requests_total",
			Help: "Availability cache lookups",
		}, []string{"service", "result"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_events_published_total",
			Help: "Booking events published to the broker",
		}, []string{"service", "type", "result"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbConnections,
		m.bookingsCreated,
		m.slotConflicts,
		m.bookingTransitions,
		m.bookingsCompleted,
		m.cacheRequests,
		m.eventsPublished,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершённый HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.service, method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.service, method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполнение SQL запроса
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(m.service, operation).Inc()
	}
}

// SetDBStats обновляет состояние пула соединений
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues(m.service, "open").Set(float64(stats.OpenConnections))
	m.dbConnections.WithLabelValues(m.service, "in_use").Set(float64(stats.InUse))
	m.dbConnections.WithLabelValues(m.service, "idle").Set(float64(stats.Idle))
}

func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(m.service).Inc()
}

func (m *Metrics) SlotConflict() {
	if m == nil {
		return
	}
	m.slotConflicts.WithLabelValues(m.service).Inc()
}

func (m *Metrics) BookingTransition(from, to string) {
	if m == nil {
		return
	}
	m.bookingTransitions.WithLabelValues(m.service, from, to).Inc()
}

func (m *Metrics) BookingsCompleted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bookingsCompleted.WithLabelValues(m.service).Add(float64(n))
}

// CacheLookup result: hit | miss | error
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(m.service, result).Inc()
}

func (m *Metrics) EventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(m.service, eventType, result).Inc()
}
