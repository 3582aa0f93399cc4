package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoicegate/internal/domain"
	"invoicegate/internal/logging"
	"invoicegate/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 success response.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, "JOB_NOT_FOUND", "job_id not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrMissingPDF):
		return http.StatusBadRequest, "MISSING_FILE", "invoice_pdf missing"
	case errors.Is(err, domain.ErrEmptyPDF):
		return http.StatusBadRequest, "EMPTY_FILE", "empty pdf"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "pdf too large"
	case errors.Is(err, domain.ErrJobAlreadyExists):
		return http.StatusConflict, "JOB_ALREADY_EXISTS", "job already exists"
	case errors.Is(err, domain.ErrJobAlreadyTerminal):
		return http.StatusConflict, "JOB_ALREADY_TERMINAL", "job already reached a terminal state"
	case errors.Is(err, domain.ErrParserNotConfigured):
		return http.StatusServiceUnavailable, "PARSER_NOT_CONFIGURED", "invoice parser is not configured"
	case errors.Is(err, domain.ErrMailboxNotConfigured):
		return http.StatusServiceUnavailable, "MAILBOX_NOT_CONFIGURED", "mailbox credentials are not configured"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		zap.L().Error("internal error",
			zap.String(logging.FieldRequestID, middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	RespondError(c, status, code, msg)
}
