package validator

import "invoicegate/internal/config"

// Expectations are the contractual terms an invoice is verified against.
type Expectations struct {
	Vendor      string
	HourlyRate  float64
	WorkshopFee float64
	Subtotal    float64
	TaxRate     float64
	Total       float64
	NetDays     int
}

// DefaultExpectations returns the terms of the consulting engagement the service was built for.
func DefaultExpectations() Expectations {
	return Expectations{
		Vendor:      "Nexus Path Consulting Group LLC",
		HourlyRate:  350.00,
		WorkshopFee: 8500.00,
		Subtotal:    29570.50,
		TaxRate:     0.08875,
		Total:       32194.88,
		NetDays:     30,
	}
}

// ExpectationsFromConfig maps the verification config section onto Expectations.
func ExpectationsFromConfig(cfg config.VerificationConfig) Expectations {
	return Expectations{
		Vendor:      cfg.Vendor,
		HourlyRate:  cfg.HourlyRate,
		WorkshopFee: cfg.WorkshopFee,
		Subtotal:    cfg.Subtotal,
		TaxRate:     cfg.TaxRate,
		Total:       cfg.Total,
		NetDays:     cfg.NetDays,
	}
}

// ExpectedTax is the subtotal multiplied by the tax rate.
func (e Expectations) ExpectedTax() float64 {
	return e.Subtotal * e.TaxRate
}
