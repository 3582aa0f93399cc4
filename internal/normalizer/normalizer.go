// Package normalizer coerces loosely typed extraction output into a domain.CanonicalInvoice.
package normalizer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"invoicegate/internal/domain"
)

// DefaultCurrency is used when the extraction omits a currency.
const DefaultCurrency = "USD"

var nonNumeric = regexp.MustCompile(`[^\d.\-]`)

// Normalize converts raw decoded JSON into a CanonicalInvoice. It never fails:
// missing or malformed values fall back to zero values.
func Normalize(raw map[string]any) domain.CanonicalInvoice {
	currency := Str(raw["currency"])
	if currency == "" {
		currency = DefaultCurrency
	}

	return domain.CanonicalInvoice{
		InvoiceNumber: Str(raw["invoice_number"]),
		Vendor:        Str(raw["vendor"]),
		InvoiceDate:   Str(raw["invoice_date"]),
		DueDate:       Str(raw["due_date"]),
		Currency:      currency,
		Subtotal:      Num(raw["subtotal"]),
		Tax:           Num(raw["tax"]),
		Total:         Num(raw["total"]),
		Confidence:    math.Min(1, Num(raw["confidence"])),
		Flags:         List(raw["flags"]),
		Summary:       Str(raw["summary"]),
	}
}

// Num coerces v to a non-negative finite float. Every character other than
// digits, '.' and '-' is stripped before parsing; failures yield 0.
func Num(v any) float64 {
	s := nonNumeric.ReplaceAllString(stringify(v), "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// Str coerces v to a trimmed string. Nil and zero values yield "".
func Str(v any) string {
	if isZero(v) {
		return ""
	}
	return strings.TrimSpace(stringify(v))
}

// List passes sequences through as strings and yields an empty slice otherwise.
func List(v any) []string {
	out := []string{}
	switch items := v.(type) {
	case []string:
		for _, s := range items {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range items {
			if s := Str(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func isZero(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case int:
		return val == 0
	case json.Number:
		return val == "" || val == "0"
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}
