package validator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"invoicegate/internal/domain"
	"invoicegate/internal/money"
)

const (
	amountTolerance = 0.01
	dateLayout      = "2006-01-02"
	// looseDateLayout also accepts months and days without zero padding.
	looseDateLayout = "2006-1-2"
)

// Detail keys, in report order.
const (
	KeyVendor      = "vendor"
	KeySubtotal    = "subtotal"
	KeyTax         = "tax"
	KeyTotal       = "total"
	KeyTerms       = "terms"
	KeyHourlyRate  = "hourly_rate"
	KeyWorkshopFee = "workshop_fee"
)

// DetailKeys lists every details key in the order reports print them.
var DetailKeys = []string{KeyVendor, KeySubtotal, KeyTax, KeyTotal, KeyTerms, KeyHourlyRate, KeyWorkshopFee}

// funcCheck adapts a closure to the Check interface.
type funcCheck struct {
	key      string
	critical bool
	run      func(*domain.CanonicalInvoice) Result
}

func (c *funcCheck) Key() string                             { return c.key }
func (c *funcCheck) Critical() bool                          { return c.critical }
func (c *funcCheck) Run(inv *domain.CanonicalInvoice) Result { return c.run(inv) }

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < amountTolerance
}

// BuiltinChecks returns the five critical checks followed by the two informational price-tag checks.
func BuiltinChecks(exp Expectations) []Check {
	return []Check{
		vendorCheck(exp),
		amountCheck(KeySubtotal, "Subtotal", exp.Subtotal, func(inv *domain.CanonicalInvoice) float64 { return inv.Subtotal }),
		taxCheck(exp),
		amountCheck(KeyTotal, "Total", exp.Total, func(inv *domain.CanonicalInvoice) float64 { return inv.Total }),
		termsCheck(exp),
		priceTagCheck(KeyHourlyRate, "Hourly rate", exp.HourlyRate, []string{
			"$" + money.Whole(exp.HourlyRate),
			strconv.FormatFloat(exp.HourlyRate, 'f', 2, 64),
		}),
		priceTagCheck(KeyWorkshopFee, "Workshop fee", exp.WorkshopFee, []string{
			"$" + money.Whole(exp.WorkshopFee),
			strconv.FormatFloat(exp.WorkshopFee, 'f', 0, 64),
		}),
	}
}

func vendorCheck(exp Expectations) Check {
	expected := strings.TrimSpace(exp.Vendor)
	return &funcCheck{
		key: KeyVendor, critical: true,
		run: func(inv *domain.CanonicalInvoice) Result {
			actual := strings.TrimSpace(inv.Vendor)
			if actual == expected {
				return pass("Vendor matches: " + expected)
			}
			return fail("Vendor mismatch", fmt.Sprintf("Vendor mismatch: Expected '%s', got '%s'", expected, actual))
		},
	}
}

func amountCheck(key, label string, expected float64, field func(*domain.CanonicalInvoice) float64) Check {
	return &funcCheck{
		key: key, critical: true,
		run: func(inv *domain.CanonicalInvoice) Result {
			actual := field(inv)
			if approxEqual(actual, expected) {
				return pass(fmt.Sprintf("%s matches: %s", label, money.Dollars(expected)))
			}
			return fail(label+" mismatch",
				fmt.Sprintf("%s mismatch: Expected %s, got %s", label, money.Dollars(expected), money.Dollars(actual)))
		},
	}
}

func taxCheck(exp Expectations) Check {
	expected := exp.ExpectedTax()
	rate := money.Percent(exp.TaxRate)
	return &funcCheck{
		key: KeyTax, critical: true,
		run: func(inv *domain.CanonicalInvoice) Result {
			if approxEqual(inv.Tax, expected) {
				return pass(fmt.Sprintf("Tax calculation correct: %s (%s)", money.Dollars(expected), rate))
			}
			return fail("Tax calculation mismatch",
				fmt.Sprintf("Tax calculation error: Expected %s, got %s", money.Dollars(expected), money.Dollars(inv.Tax)))
		},
	}
}

func termsCheck(exp Expectations) Check {
	return &funcCheck{
		key: KeyTerms, critical: true,
		run: func(inv *domain.CanonicalInvoice) Result {
			days, err := DaysBetween(inv.InvoiceDate, inv.DueDate)
			if err != nil {
				return fail("Could not verify terms", "Date parsing error: "+err.Error())
			}
			if days == exp.NetDays {
				return pass(fmt.Sprintf("Net %d terms confirmed: %s + %d days = %s", exp.NetDays, inv.InvoiceDate, exp.NetDays, inv.DueDate))
			}
			return fail(fmt.Sprintf("Terms mismatch: %d days", days),
				fmt.Sprintf("Terms mismatch: Expected Net %d, got %d days", exp.NetDays, days))
		},
	}
}

// priceTagCheck looks for any of tags in the free-text summary. It is informational only.
func priceTagCheck(key, label string, amount float64, tags []string) Check {
	return &funcCheck{
		key: key, critical: false,
		run: func(inv *domain.CanonicalInvoice) Result {
			for _, tag := range tags {
				if strings.Contains(inv.Summary, tag) {
					return pass(fmt.Sprintf("%s %s detected", label, money.Dollars(amount)))
				}
			}
			return warn(label+" not confirmed in summary",
				fmt.Sprintf("%s %s not explicitly confirmed in summary", label, money.Dollars(amount)))
		},
	}
}

// DaysBetween returns the whole days from start to end, both formatted YYYY-MM-DD.
func DaysBetween(start, end string) (int, error) {
	from, err := parseDate(start)
	if err != nil {
		return 0, err
	}
	to, err := parseDate(end)
	if err != nil {
		return 0, err
	}
	return int(math.Floor(to.Sub(from).Hours() / 24)), nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err == nil {
		return t, nil
	}
	if loose, lerr := time.Parse(looseDateLayout, s); lerr == nil {
		return loose, nil
	}
	return time.Time{}, err
}
