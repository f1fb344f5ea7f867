package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors exported on /metrics. All record methods are
// safe to call on a nil *Metrics, which keeps services usable without a registry.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DBOperationDuration *prometheus.HistogramVec

	InvoicesIssued   *prometheus.CounterVec
	PaymentsRecorded prometheus.Counter
	RemindersSent    *prometheus.CounterVec
	ImportRows       *prometheus.CounterVec
}

// New registers the collectors with reg under the given name prefix.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		DBOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of multi-step database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		InvoicesIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_invoices_issued_total",
				Help: "Invoices issued, by payment mode",
			},
			[]string{"payment_mode"},
		),
		PaymentsRecorded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_payments_recorded_total",
				Help: "Payments recorded against credit balances",
			},
		),
		RemindersSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_reminders_total",
				Help: "Reminder attempts, by provider and outcome",
			},
			[]string{"provider", "status"},
		),
		ImportRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_import_rows_total",
				Help: "Bulk import rows, by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

// TrackDBOperation returns a func that records the elapsed time when called.
func (m *Metrics) TrackDBOperation(operation string) func() {
	start := time.Now()
	return func() {
		if m == nil {
			return
		}
		m.DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) InvoiceIssued(paymentMode string) {
	if m == nil {
		return
	}
	m.InvoicesIssued.WithLabelValues(paymentMode).Inc()
}

func (m *Metrics) PaymentRecorded() {
	if m == nil {
		return
	}
	m.PaymentsRecorded.Inc()
}

func (m *Metrics) ReminderAttempt(provider, status string) {
	if m == nil {
		return
	}
	m.RemindersSent.WithLabelValues(provider, status).Inc()
}

func (m *Metrics) ImportRow(outcome string) {
	if m == nil {
		return
	}
	m.ImportRows.WithLabelValues(outcome).Inc()
}
