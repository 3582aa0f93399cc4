package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicegate/internal/domain"
	"invoicegate/internal/handler"
	"invoicegate/internal/service"
	"invoicegate/mocks"
)

func TestSweepHandler_Trigger_NoBody(t *testing.T) {
	svc := new(mocks.MockSweepService)
	h := handler.NewSweepHandler(svc)

	jobID := uuid.New()
	entry := &domain.CheckHistoryEntry{
		CheckedAt:         time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
		Trigger:           domain.SweepTriggerManual,
		InvoicesFound:     2,
		InvoicesProcessed: 1,
		Errors:            []string{"No PDF in email: Invoice reminder"},
		JobIDs:            []uuid.UUID{jobID},
	}
	svc.On("Sweep", mock.Anything, domain.SweepTriggerManual, service.SweepOverrides{}).Return(entry, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/sweeps", nil)

	h.Trigger(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, "complete", data["status"])
	assert.Equal(t, float64(2), data["invoices_found"])
	assert.Equal(t, float64(1), data["invoices_processed"])
	assert.Equal(t, []interface{}{jobID.String()}, data["job_ids"])
	assert.Equal(t, "Checked mailbox: found 2 invoice(s), processed 1", data["message"])
	svc.AssertExpectations(t)
}

func TestSweepHandler_Trigger_Overrides(t *testing.T) {
	svc := new(mocks.MockSweepService)
	h := handler.NewSweepHandler(svc)

	svc.On("Sweep", mock.Anything, domain.SweepTriggerManual, service.SweepOverrides{
		Email:       "student@example.com",
		AppPassword: "app-pass",
		APIKey:      "key",
		Model:       "gemini-2.0-flash",
	}).Return(&domain.CheckHistoryEntry{Errors: []string{}, JobIDs: []uuid.UUID{}}, nil)

	body := `{"email":"student@example.com","app_pass":"app-pass","api_key":"key","model":"gemini-2.0-flash"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/sweeps", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Trigger(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSweepHandler_Trigger_BadJSON(t *testing.T) {
	svc := new(mocks.MockSweepService)
	h := handler.NewSweepHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/sweeps", strings.NewReader("[1,2"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Trigger(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Sweep", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepHandler_Trigger_StoreError(t *testing.T) {
	svc := new(mocks.MockSweepService)
	h := handler.NewSweepHandler(svc)
	svc.On("Sweep", mock.Anything, domain.SweepTriggerManual, service.SweepOverrides{}).
		Return(nil, errors.New("history append failed"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/sweeps", nil)

	h.Trigger(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSweepHandler_History(t *testing.T) {
	svc := new(mocks.MockSweepService)
	h := handler.NewSweepHandler(svc)

	entries := []*domain.CheckHistoryEntry{
		{ID: uuid.New(), Trigger: domain.SweepTriggerScheduled},
		{ID: uuid.New(), Trigger: domain.SweepTriggerManual},
	}
	svc.On("History", mock.Anything, service.HistoryWindow).Return(entries, 57, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/sweeps/history", nil)

	h.History(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, float64(57), data["total_checks"])
	history, ok := data["history"].([]interface{})
	require.True(t, ok)
	require.Len(t, history, 2)
	assert.Equal(t, "scheduled", history[0].(map[string]interface{})["trigger"])
}
