package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicegate/internal/domain"
	"invoicegate/internal/export"
	"invoicegate/internal/service"
	"invoicegate/internal/summary"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
	exportName      = "invoice_jobs"
)

// JobHandler serves job status, summaries and listings.
type JobHandler struct {
	jobs service.JobStore
	now  func() time.Time
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs service.JobStore) *JobHandler {
	return &JobHandler{jobs: jobs, now: time.Now}
}

// Get handles GET /api/v1/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	job, ok := h.load(c)
	if !ok {
		return
	}
	RespondOK(c, gin.H{
		"job_id":       job.ID,
		"summary":      summary.Summarize(job),
		"full_details": job,
	})
}

// Summary handles GET /api/v1/jobs/:id/summary
func (h *JobHandler) Summary(c *gin.Context) {
	job, ok := h.load(c)
	if !ok {
		return
	}
	RespondOK(c, gin.H{
		"job_id":  job.ID,
		"summary": summary.Summarize(job),
	})
}

// List handles GET /api/v1/jobs
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.jobs.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"total": len(jobs),
		"jobs":  summary.ListItems(jobs),
	})
}

// Export handles GET /api/v1/jobs/export?format=xlsx|csv
func (h *JobHandler) Export(c *gin.Context) {
	jobs, err := h.jobs.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	items := summary.ListItems(jobs)

	switch format := c.DefaultQuery("format", "xlsx"); format {
	case "xlsx":
		data, err := export.XLSX(items)
		if err != nil {
			HandleError(c, err)
			return
		}
		h.attach(c, "xlsx")
		c.Data(http.StatusOK, contentTypeXLSX, data)
	case "csv":
		var buf bytes.Buffer
		buf.Write(export.BOM)
		w := export.NewCSVWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			HandleError(c, err)
			return
		}
		if err := w.WriteItems(items); err != nil {
			HandleError(c, err)
			return
		}
		if err := w.Flush(); err != nil {
			HandleError(c, err)
			return
		}
		h.attach(c, "csv")
		c.Data(http.StatusOK, contentTypeCSV, buf.Bytes())
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be xlsx or csv")
	}
}

func (h *JobHandler) attach(c *gin.Context, ext string) {
	name := export.BuildFilename(exportName, ext, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
}

// load resolves the :id path parameter, writing the error response on failure.
func (h *JobHandler) load(c *gin.Context) (*domain.Job, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		HandleError(c, domain.ErrJobNotFound)
		return nil, false
	}
	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return job, true
}
