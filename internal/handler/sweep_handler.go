package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicegate/internal/domain"
	"invoicegate/internal/service"
)

// SweepHandler triggers mailbox sweeps and reports their history.
type SweepHandler struct {
	sweeps service.SweepService
}

// NewSweepHandler creates a new SweepHandler.
func NewSweepHandler(sweeps service.SweepService) *SweepHandler {
	return &SweepHandler{sweeps: sweeps}
}

// sweepRequest carries optional per-sweep credentials.
type sweepRequest struct {
	Email   string `json:"email"`
	AppPass string `json:"app_pass"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
}

// Trigger handles POST /api/v1/sweeps
func (h *SweepHandler) Trigger(c *gin.Context) {
	var req sweepRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a JSON object")
		return
	}

	entry, err := h.sweeps.Sweep(c.Request.Context(), domain.SweepTriggerManual, service.SweepOverrides{
		Email:       req.Email,
		AppPassword: req.AppPass,
		APIKey:      req.APIKey,
		Model:       req.Model,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"status":             "complete",
		"checked_at":         entry.CheckedAt,
		"invoices_found":     entry.InvoicesFound,
		"invoices_processed": entry.InvoicesProcessed,
		"job_ids":            entry.JobIDs,
		"errors":             entry.Errors,
		"message":            service.SweepMessage(entry),
	})
}

// History handles GET /api/v1/sweeps/history
func (h *SweepHandler) History(c *gin.Context) {
	entries, total, err := h.sweeps.History(c.Request.Context(), service.HistoryWindow)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"total_checks": total,
		"history":      entries,
	})
}
