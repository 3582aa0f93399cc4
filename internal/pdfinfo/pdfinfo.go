// Package pdfinfo reads structural metadata from PDF attachments.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"

	"invoicegate/internal/domain"
	"invoicegate/internal/port"
)

type inspector struct{}

// NewInspector returns a port.PDFInspector backed by ledongthuc/pdf.
func NewInspector() port.PDFInspector {
	return inspector{}
}

// PageCount returns the number of pages declared by the document's page tree.
func (inspector) PageCount(data []byte) (n int, err error) {
	if len(data) == 0 {
		return 0, domain.ErrEmptyPDF
	}
	// The reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("reading pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("reading pdf: %w", err)
	}
	n = r.NumPage()
	if n <= 0 {
		return 0, errors.New("reading pdf: document has no pages")
	}
	return n, nil
}
