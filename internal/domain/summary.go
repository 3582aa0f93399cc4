package domain

// StatusSummary is the human-facing view of a job derived by the summarizer.
type StatusSummary struct {
	Status              JobStatus            `json:"status"`
	Message             string               `json:"message"`
	InvoiceInfo         *InvoiceInfo         `json:"invoice_info,omitempty"`
	VerificationSummary *VerificationSummary `json:"verification_summary,omitempty"`
	NotificationSummary *NotificationSummary `json:"notification_summary,omitempty"`
	Warnings            []string             `json:"warnings"`
}

// InvoiceInfo is the headline data of a processed invoice.
type InvoiceInfo struct {
	InvoiceNumber string `json:"invoice_number"`
	Vendor        string `json:"vendor"`
	Total         string `json:"total"`
	Date          string `json:"date"`
	DueDate       string `json:"due_date"`
}

// VerificationSummary condenses a VerificationReport.
type VerificationSummary struct {
	AllChecksPassed bool              `json:"all_checks_passed"`
	ChecksPassed    string            `json:"checks_passed"`
	Status          string            `json:"status"`
	Details         map[string]string `json:"details"`
}

// NotificationSummary condenses a NotificationOutcome.
type NotificationSummary struct {
	Posted    bool   `json:"posted"`
	Status    string `json:"status"`
	Channel   string `json:"channel,omitempty"`
	TargetURL string `json:"target_url,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// JobListItem is the compact per-job row of the bulk listing.
type JobListItem struct {
	JobID              string    `json:"job_id"`
	Status             JobStatus `json:"status"`
	InvoiceNumber      string    `json:"invoice_number"`
	Vendor             string    `json:"vendor"`
	Total              string    `json:"total"`
	VerificationStatus string    `json:"verification_status"`
	NotificationStatus string    `json:"notification_status"`
	ProcessedAt        string    `json:"processed_at"`
	Source             JobSource `json:"source"`
	Message            string    `json:"message"`
}
