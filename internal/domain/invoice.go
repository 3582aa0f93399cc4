package domain

// CanonicalInvoice is the normalized form of the fields an LLM extracted from an invoice PDF.
type CanonicalInvoice struct {
	InvoiceNumber string   `json:"invoice_number"`
	Vendor        string   `json:"vendor"`
	InvoiceDate   string   `json:"invoice_date"`
	DueDate       string   `json:"due_date"`
	Currency      string   `json:"currency"`
	Subtotal      float64  `json:"subtotal"`
	Tax           float64  `json:"tax"`
	Total         float64  `json:"total"`
	Confidence    float64  `json:"confidence"`
	Flags         []string `json:"flags"`
	Summary       string   `json:"summary"`
}

// VerificationReport is the outcome of checking a CanonicalInvoice against the expected contract terms.
type VerificationReport struct {
	VendorMatch         bool              `json:"vendor_match"`
	HourlyRateMatch     bool              `json:"hourly_rate_match"`
	WorkshopFeeMatch    bool              `json:"workshop_fee_match"`
	SubtotalMatch       bool              `json:"subtotal_match"`
	TotalMatch          bool              `json:"total_match"`
	TaxCalculationMatch bool              `json:"tax_calculation_match"`
	Net30TermsMatch     bool              `json:"net_30_terms_match"`
	AllChecksPassed     bool              `json:"all_checks_passed"`
	Flags               []string          `json:"flags"`
	Details             map[string]string `json:"details"`
}

// CriticalChecksTotal is the number of checks that decide AllChecksPassed.
const CriticalChecksTotal = 5

// CriticalChecksPassed counts the critical checks that passed.
func (r *VerificationReport) CriticalChecksPassed() int {
	n := 0
	for _, ok := range []bool{r.VendorMatch, r.SubtotalMatch, r.TaxCalculationMatch, r.TotalMatch, r.Net30TermsMatch} {
		if ok {
			n++
		}
	}
	return n
}

// NotificationOutcome records what happened when the approval message was posted.
type NotificationOutcome struct {
	Success   bool   `json:"success"`
	Channel   string `json:"channel,omitempty"`
	TargetURL string `json:"target_url,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}
