package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration        *prometheus.HistogramVec
	DBQueryErrors          *prometheus.CounterVec
	DBTxDuration           *prometheus.HistogramVec
	DBConnections          *prometheus.GaugeVec
	DBSerializationRetries *prometheus.CounterVec

	// Бронирования и фоновые задачи
	BookingTransitions *prometheus.CounterVec
	SweepRuns          *prometheus.CounterVec
	GatewayCalls       *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency by operation",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors by operation",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBTxDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_transaction_duration_seconds",
			Help:        "Database transaction duration by outcome",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"outcome"}),

		DBConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		DBSerializationRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_serialization_retries_total",
			Help:        "Serializable transactions retried after a serialization failure",
			ConstLabels: constLabels,
		}, []string{"attempt"}),

		BookingTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Booking status transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),

		SweepRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "sweep_runs_total",
			Help:        "Background sweep runs by job and outcome",
			ConstLabels: constLabels,
		}, []string{"job", "outcome"}),

		GatewayCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_gateway_calls_total",
			Help:        "Payment gateway calls by operation and outcome",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),
	}
}

// RecordTransition учитывает переход бронирования между статусами
// Безопасно вызывать на nil, когда метрики отключены
func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(from, to).Inc()
}

// RecordSweep учитывает запуск фоновой задачи
func (m *Metrics) RecordSweep(job, outcome string) {
	if m == nil {
		return
	}
	m.SweepRuns.WithLabelValues(job, outcome).Inc()
}

// RecordGatewayCall учитывает вызов платежного шлюза
func (m *Metrics) RecordGatewayCall(operation, outcome string) {
	if m == nil {
		return
	}
	m.GatewayCalls.WithLabelValues(operation, outcome).Inc()
}
