package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoicegate/internal/handler"
	"invoicegate/internal/middleware"
	"invoicegate/internal/observability/metrics"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Invoice *handler.InvoiceHandler
	Job     *handler.JobHandler
	Sweep   *handler.SweepHandler
	Health  *handler.HealthHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	Logger         *zap.Logger
	Metrics        *metrics.PipelineMetrics
	MetricsPath    string
	AllowedOrigins []string
	// MaxMultipartMemory bounds the in-memory part of an upload; 0 keeps gin's default.
	MaxMultipartMemory int64
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log, opts.Metrics))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/health", h.Health.Health)
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	if opts.Metrics != nil && opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(opts.Metrics.Handler()))
	}

	v1 := r.Group("/api/v1")

	v1.POST("/invoices", h.Invoice.Submit)

	jobs := v1.Group("/jobs")
	jobs.GET("", h.Job.List)
	jobs.GET("/export", h.Job.Export)
	jobs.GET("/:id", h.Job.Get)
	jobs.GET("/:id/summary", h.Job.Summary)

	sweeps := v1.Group("/sweeps")
	sweeps.POST("", h.Sweep.Trigger)
	sweeps.GET("/history", h.Sweep.History)

	return r
}
