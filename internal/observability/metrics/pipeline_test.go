package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicegate/internal/observability/metrics"
)

func TestPipelineMetrics_Jobs(t *testing.T) {
	m := metrics.NewPipelineMetrics()

	m.StartJob()
	m.StartJob()
	m.FinishJob("manual_upload", "done", 2*time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `invoicegate_pipeline_jobs_total{source="manual_upload",status="done"} 1`)
	assert.Contains(t, body, "invoicegate_pipeline_jobs_in_flight 1")
}

func TestPipelineMetrics_SweepAndNotifications(t *testing.T) {
	m := metrics.NewPipelineMetrics()

	m.ObserveSweep("scheduled", 3, 2, 1)
	m.ObserveNotification(nil)
	m.ObserveNotification(errors.New("channel_not_found"))
	m.ObserveVerification(true)

	body := scrape(t, m)
	assert.Contains(t, body, `invoicegate_mailbox_sweeps_total{outcome="with_errors",trigger="scheduled"} 1`)
	assert.Contains(t, body, `invoicegate_mailbox_invoices_total{stage="found"} 3`)
	assert.Contains(t, body, `invoicegate_pipeline_notifications_total{status="error"} 1`)
	assert.Contains(t, body, `invoicegate_pipeline_verifications_total{outcome="passed"} 1`)
}

func TestPipelineMetrics_Requests(t *testing.T) {
	m := metrics.NewPipelineMetrics()
	m.ObserveRequest(http.MethodGet, "/api/v1/jobs/:id", http.StatusNotFound, 5*time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `invoicegate_http_requests_total{method="GET",path="/api/v1/jobs/:id",status="4xx"} 1`)
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *metrics.PipelineMetrics
	assert.NotPanics(t, func() {
		m.StartJob()
		m.FinishJob("scheduled", "error", time.Second)
		m.ObserveSweep("manual", 0, 0, 0)
	})
}

func scrape(t *testing.T, m *metrics.PipelineMetrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
