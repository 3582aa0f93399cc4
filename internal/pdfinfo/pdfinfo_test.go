package pdfinfo_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicegate/internal/domain"
	"invoicegate/internal/pdfinfo"
)

// buildPDF assembles a minimal uncompressed PDF with the given number of blank pages.
func buildPDF(pages int) []byte {
	var objects []string
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages),
	)
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestPageCount(t *testing.T) {
	inspector := pdfinfo.NewInspector()

	n, err := inspector.PageCount(buildPDF(3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPageCount_Empty(t *testing.T) {
	_, err := pdfinfo.NewInspector().PageCount(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyPDF)
}

func TestPageCount_NotAPDF(t *testing.T) {
	_, err := pdfinfo.NewInspector().PageCount([]byte("definitely not a pdf"))
	assert.Error(t, err)
}
