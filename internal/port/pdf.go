package port

// PDFInspector reads structural facts from a PDF.
type PDFInspector interface {
	PageCount(data []byte) (int, error)
}
