package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicegate/internal/port"
	"invoicegate/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	health service.HealthService
	store  port.Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(health service.HealthService, store port.Pinger) *HealthHandler {
	return &HealthHandler{health: health, store: store}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	report, err := h.health.Report(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "job store not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
