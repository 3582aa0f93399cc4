package handler

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"invoicegate/internal/domain"
	"invoicegate/internal/service"
)

// InvoiceHandler accepts invoice PDFs for background processing.
type InvoiceHandler struct {
	invoices service.InvoiceService
	maxBytes int64
}

// NewInvoiceHandler creates a new InvoiceHandler. maxBytes <= 0 disables the size check.
func NewInvoiceHandler(invoices service.InvoiceService, maxBytes int64) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, maxBytes: maxBytes}
}

// Submit handles POST /api/v1/invoices
func (h *InvoiceHandler) Submit(c *gin.Context) {
	file, header, err := c.Request.FormFile("invoice_pdf")
	if err != nil {
		HandleError(c, domain.ErrMissingPDF)
		return
	}
	defer func() { _ = file.Close() }()

	pdf, err := h.read(file)
	if err != nil {
		HandleError(c, err)
		return
	}

	job, err := h.invoices.Submit(c.Request.Context(), service.SubmitInput{
		PDF:          pdf,
		Filename:     header.Filename,
		EmailFrom:    c.PostForm("email_from"),
		EmailSubject: c.PostForm("email_subject"),
		Source:       domain.JobSourceManualUpload,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, gin.H{
		"status": "accepted",
		"job_id": job.ID,
	})
}

func (h *InvoiceHandler) read(r io.Reader) ([]byte, error) {
	if h.maxBytes > 0 {
		r = io.LimitReader(r, h.maxBytes+1)
	}
	pdf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("invoiceHandler.read: %w", err)
	}
	if len(pdf) == 0 {
		return nil, domain.ErrEmptyPDF
	}
	if h.maxBytes > 0 && int64(len(pdf)) > h.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	return pdf, nil
}
