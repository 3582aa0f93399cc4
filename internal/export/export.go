package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"invoicegate/internal/domain"
)

// columns defines the header row shared by every export format.
var columns = []string{
	"Job ID",
	"Status",
	"Source",
	"Invoice Number",
	"Vendor",
	"Total",
	"Verification",
	"Notification",
	"Processed At",
	"Message",
}

// Columns returns a copy of the export header row.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// itemToRow converts a listing row to one export row.
func itemToRow(item *domain.JobListItem) []string {
	return []string{
		item.JobID,
		string(item.Status),
		string(item.Source),
		item.InvoiceNumber,
		item.Vendor,
		item.Total,
		item.VerificationStatus,
		item.NotificationStatus,
		item.ProcessedAt,
		item.Message,
	}
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. The result
// is at most 100 characters.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {name}_{YYYY-MM-DD}.{ext} for the given day.
func BuildFilename(name, ext string, day time.Time) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "jobs"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, day.Format("2006-01-02"), ext)
}
