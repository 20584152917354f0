// Package core holds the ledger's value types.
//
// This file contains parsing and formatting helpers for monetary amounts.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user or file text into a decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The sign is
// preserved so that callers can report a non-positive amount as a validation
// failure rather than a parse failure.
//
// Examples:
//
//	ParseAmount("125.50") -> 125.5, nil
//	ParseAmount("125,50") -> 125.5, nil
//	ParseAmount("-3")     -> -3, nil
//	ParseAmount("abc")    -> 0, ErrMalformedAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty input", ErrMalformedAmount)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
