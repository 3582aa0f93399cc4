package validator

import "invoicegate/internal/domain"

// Check is a single verification rule applied to an extracted invoice.
type Check interface {
	// Key names the check in the report's details mapping.
	Key() string
	// Critical reports whether a failure fails the whole invoice.
	Critical() bool
	Run(inv *domain.CanonicalInvoice) Result
}

// Result is the outcome of one Check.
type Result struct {
	Passed bool
	Detail string
	// Flag is set whenever the check did not pass.
	Flag string
}

// Detail prefixes used in the human-readable report.
const (
	markPass = "✓ "
	markFail = "✗ "
	markWarn = "⚠ "
)

func pass(detail string) Result {
	return Result{Passed: true, Detail: markPass + detail}
}

func fail(detail, flag string) Result {
	return Result{Detail: markFail + detail, Flag: flag}
}

func warn(detail, flag string) Result {
	return Result{Detail: markWarn + detail, Flag: flag}
}
