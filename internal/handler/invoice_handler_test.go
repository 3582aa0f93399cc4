package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

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

func multipartRequest(t *testing.T, pdf []byte, withFile bool, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if withFile {
		part, err := mw.CreateFormFile("invoice_pdf", "invoice.pdf")
		require.NoError(t, err)
		_, err = part.Write(pdf)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestInvoiceHandler_Submit_Accepted(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(svc, 1024)

	pdf := []byte("%PDF-1.4 invoice")
	id := uuid.New()
	svc.On("Submit", mock.Anything, service.SubmitInput{
		PDF:          pdf,
		Filename:     "invoice.pdf",
		EmailFrom:    "billing@fixit.example",
		EmailSubject: "Invoice INV-2024-0042",
		Source:       domain.JobSourceManualUpload,
	}).Return(&domain.Job{ID: id, Status: domain.JobStatusProcessing}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, pdf, true, map[string]string{
		"email_from":    "billing@fixit.example",
		"email_subject": "Invoice INV-2024-0042",
	})

	h.Submit(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	resp, data := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "accepted", data["status"])
	assert.Equal(t, id.String(), data["job_id"])
	svc.AssertExpectations(t)
}

func TestInvoiceHandler_Submit_Missing(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(svc, 1024)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, nil, false, map[string]string{"email_from": "x@example.com"})

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp, _ := decode(t, w)
	assert.Equal(t, "MISSING_FILE", resp.Error.Code)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Submit_Empty(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(svc, 1024)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, []byte{}, true, nil)

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp, _ := decode(t, w)
	assert.Equal(t, "EMPTY_FILE", resp.Error.Code)
	assert.Equal(t, "empty pdf", resp.Error.Message)
}

func TestInvoiceHandler_Submit_TooLarge(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(svc, 8)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, bytes.Repeat([]byte("x"), 9), true, nil)

	h.Submit(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Submit_AtLimit(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(svc, 8)
	svc.On("Submit", mock.Anything, mock.AnythingOfType("service.SubmitInput")).
		Return(&domain.Job{ID: uuid.New()}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, bytes.Repeat([]byte("x"), 8), true, nil)

	h.Submit(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
}
