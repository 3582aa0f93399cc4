// Package money renders amounts the way approval messages and reports show them.
package money

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders v with two decimals and thousands separators: 29570.5 -> "29,570.50".
func Format(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// Dollars renders v as a dollar amount: 29570.5 -> "$29,570.50".
func Dollars(v float64) string {
	return "$" + Format(v)
}

// Whole renders v rounded to an integer with thousands separators: 8500 -> "8,500".
func Whole(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// WithCurrency renders "<currency> <amount>", e.g. "USD 32,194.88".
func WithCurrency(currency string, v float64) string {
	return currency + " " + Format(v)
}

// Percent renders a fractional rate as a trimmed percentage: 0.08875 -> "8.875%".
func Percent(rate float64) string {
	s := strconv.FormatFloat(rate*100, 'f', 3, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + "%"
}
