package port

import "context"

// ParseInput carries the PDF and email context sent to the extraction model.
type ParseInput struct {
	FileBytes    []byte
	ContentType  string
	EmailFrom    string
	EmailSubject string
}

// ParseOutput contains the raw model response. The text is expected to hold
// one JSON object, possibly inside a fenced code block.
type ParseOutput struct {
	RawText    string
	ModelUsed  string
	PromptUsed string
}

// InvoiceParser abstracts LLM-based field extraction from invoice PDFs.
type InvoiceParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
