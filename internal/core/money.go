// Package core holds the domain model and money handling utilities.
//
// All monetary amounts travel as integer minor units (1/100 of the display
// currency). Decimal values only appear at the edges: parsing user input and
// rendering for display.
package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxAmount is the largest absolute decimal amount representable in int64
// minor units.
var maxAmount = decimal.New(math.MaxInt64, -2)

// ToMinorUnits converts a decimal amount to integer minor units, rounding
// half-to-even on the sub-cent digit so repeated conversions are
// deterministic. Returns ErrInvalidAmount when the value does not fit the
// supported range.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if amount.Abs().GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	return amount.Shift(2).RoundBank(0).IntPart(), nil
}

// FromMinorUnits converts integer minor units back to a decimal amount.
// Exact for two-decimal currencies, no rounding involved.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// ParseAmount converts a user-entered amount string to minor units.
//
// Accepts both dot (12.34) and comma (12,34) decimal separators. Returns
// ErrInvalidAmount for anything that is not a finite decimal number.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return ToMinorUnits(d)
}

var currencyPrinter = message.NewPrinter(language.English)

// FormatCurrency renders minor units with exactly two fraction digits and
// locale-aware thousands separators.
//
// Examples:
//
//	FormatCurrency(150) -> "1.50"
//	FormatCurrency(-5) -> "-0.05"
//	FormatCurrency(123456789) -> "1,234,567.89"
func FormatCurrency(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return sign + currencyPrinter.Sprintf("%d", minor/100) + fmt.Sprintf(".%02d", minor%100)
}
