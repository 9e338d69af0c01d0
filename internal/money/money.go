// Package money parses and formats euro amounts held as decimals.
package money

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for input that is not a plain unsigned decimal.
var ErrInvalidAmount = errors.New("invalid amount")

// Epsilon is half a cent. Magnitudes below it count as zero.
var Epsilon = decimal.New(5, -3)

// Parse converts a user-entered amount to a decimal.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// Signs, exponents and thousands separators are rejected.
//
// Examples:
//
//	Parse("12.34") -> 12.34, nil
//	Parse("12,5")  -> 12.5, nil
//	Parse("-3")    -> 0, ErrInvalidAmount
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	digits := 0
	for _, r := range s {
		if r == '.' {
			continue
		}
		if !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
		digits++
	}
	if digits == 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Format renders an amount with two decimals and the euro sign, e.g. "10.00 €".
func Format(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}

// IsZero reports whether d is within Epsilon of zero.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(Epsilon)
}
