// Package core provides money parsing and handling utilities.
//
// Amounts typed by users are parsed into decimals so rounding happens once,
// at the edge. Amounts coming back from the API are plain floats and are only
// formatted for display.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	rupeeSymbol = "₹"
	// reportPrefix is used where the rupee glyph is unavailable (PDF core fonts).
	reportPrefix = "Rs. "
)

// Indian English groups thousands, then lakhs and crores: 12,34,567.
var printer = message.NewPrinter(language.MustParse("en-IN"))

// ParseAmount converts a user-entered amount into a decimal rounded to two places.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half away from zero on the third decimal place. Signs, exponents, zero and
// empty input are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,345") -> 12.35
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "+-eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Cents returns the amount in hundredths.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// FormatPlain renders v with exactly two decimals and no grouping.
func FormatPlain(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatRupees renders v for HTML, e.g. "₹12,34,567.50" or "-₹12.00".
func FormatRupees(v float64) string {
	if v < 0 {
		return "-" + rupeeSymbol + printer.Sprintf("%.2f", -v)
	}
	return rupeeSymbol + printer.Sprintf("%.2f", v)
}

// FormatReport renders v the way the PDF report prints amounts, e.g. "Rs. 1234.50".
func FormatReport(v float64) string {
	return reportPrefix + FormatPlain(v)
}
