package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrJobNotFound          = errors.New("job not found")
	ErrJobAlreadyExists     = errors.New("job already exists")
	ErrJobAlreadyTerminal   = errors.New("job already reached a terminal state")
	ErrMissingPDF           = errors.New("invoice_pdf missing")
	ErrEmptyPDF             = errors.New("empty pdf")
	ErrFileTooLarge         = errors.New("pdf too large")
	ErrNoJSONFound          = errors.New("no JSON found in extraction output")
	ErrParserNotConfigured  = errors.New("invoice parser is not configured")
	ErrMailboxNotConfigured = errors.New("mailbox credentials are not configured")
)
