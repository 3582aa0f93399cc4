package validator

import "invoicegate/internal/domain"

// Engine verifies extracted invoices against a fixed set of expectations.
// It is pure and safe for concurrent use.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine that applies the builtin checks for exp.
func NewEngine(exp Expectations) *Engine {
	registry := NewRegistry()
	for _, c := range BuiltinChecks(exp) {
		registry.Register(c)
	}
	return NewEngineWithRegistry(registry)
}

// NewEngineWithRegistry creates an engine over an explicit set of checks.
func NewEngineWithRegistry(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Verify runs every check against inv. A nil invoice is verified as an empty one.
func (e *Engine) Verify(inv *domain.CanonicalInvoice) *domain.VerificationReport {
	if inv == nil {
		inv = &domain.CanonicalInvoice{}
	}

	report := &domain.VerificationReport{
		Flags:   []string{},
		Details: make(map[string]string, len(e.registry.checks)),
	}

	allCritical := true
	for _, c := range e.registry.All() {
		res := c.Run(inv)
		report.Details[c.Key()] = res.Detail
		if !res.Passed {
			report.Flags = append(report.Flags, res.Flag)
			if c.Critical() {
				allCritical = false
			}
		}
		setCheck(report, c.Key(), res.Passed)
	}
	report.AllChecksPassed = allCritical && report.CriticalChecksPassed() == domain.CriticalChecksTotal

	return report
}

func setCheck(r *domain.VerificationReport, key string, passed bool) {
	switch key {
	case KeyVendor:
		r.VendorMatch = passed
	case KeySubtotal:
		r.SubtotalMatch = passed
	case KeyTax:
		r.TaxCalculationMatch = passed
	case KeyTotal:
		r.TotalMatch = passed
	case KeyTerms:
		r.Net30TermsMatch = passed
	case KeyHourlyRate:
		r.HourlyRateMatch = passed
	case KeyWorkshopFee:
		r.WorkshopFeeMatch = passed
	}
}
