package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "invoicegate"

// PipelineMetrics tracks invoice jobs, mailbox sweeps, approval posts and HTTP traffic.
type PipelineMetrics struct {
	registry *prometheus.Registry

	jobsTotal         *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
	jobsInFlight      prometheus.Gauge
	verificationTotal *prometheus.CounterVec
	notificationTotal *prometheus.CounterVec
	sweepsTotal       *prometheus.CounterVec
	sweepInvoices     *prometheus.CounterVec

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewPipelineMetrics() *PipelineMetrics {
	registry := prometheus.NewRegistry()

	jobsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "jobs_total",
			Help:      "Invoice jobs reaching a terminal state by source and status.",
		},
		[]string{"source", "status"},
	)
	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "job_duration_seconds",
			Help:      "Time from job creation to terminal state.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
		},
		[]string{"status"},
	)
	jobsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "jobs_in_flight",
			Help:      "Invoice jobs currently processing.",
		},
	)
	verificationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "verifications_total",
			Help:      "Verification outcomes.",
		},
		[]string{"outcome"},
	)
	notificationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "notifications_total",
			Help:      "Approval posts by result.",
		},
		[]string{"status"},
	)
	sweepsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mailbox",
			Name:      "sweeps_total",
			Help:      "Mailbox sweeps by trigger and outcome.",
		},
		[]string{"trigger", "outcome"},
	)
	sweepInvoices := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mailbox",
			Name:      "invoices_total",
			Help:      "Invoice emails seen by sweeps, split into found and processed.",
		},
		[]string{"stage"},
	)
	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(
		jobsTotal, jobDuration, jobsInFlight, verificationTotal, notificationTotal,
		sweepsTotal, sweepInvoices, requestTotal, requestDuration,
	)

	return &PipelineMetrics{
		registry:          registry,
		jobsTotal:         jobsTotal,
		jobDuration:       jobDuration,
		jobsInFlight:      jobsInFlight,
		verificationTotal: verificationTotal,
		notificationTotal: notificationTotal,
		sweepsTotal:       sweepsTotal,
		sweepInvoices:     sweepInvoices,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) StartJob() {
	if m == nil {
		return
	}
	m.jobsInFlight.Inc()
}

func (m *PipelineMetrics) FinishJob(source, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobsInFlight.Dec()
	m.jobsTotal.WithLabelValues(source, status).Inc()
	if duration >= 0 {
		m.jobDuration.WithLabelValues(status).Observe(duration.Seconds())
	}
}

func (m *PipelineMetrics) ObserveVerification(passed bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	m.verificationTotal.WithLabelValues(outcome).Inc()
}

func (m *PipelineMetrics) ObserveNotification(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.notificationTotal.WithLabelValues(status).Inc()
}

func (m *PipelineMetrics) ObserveSweep(trigger string, found, processed, errs int) {
	if m == nil {
		return
	}
	outcome := "clean"
	if errs > 0 {
		outcome = "with_errors"
	}
	m.sweepsTotal.WithLabelValues(trigger, outcome).Inc()
	m.sweepInvoices.WithLabelValues("found").Add(float64(found))
	m.sweepInvoices.WithLabelValues("processed").Add(float64(processed))
}

func (m *PipelineMetrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
