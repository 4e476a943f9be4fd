// Package core holds the ledger's domain types.
//
// This file contains amount parsing. Amounts are stored as text and parsed
// into exact decimals only when they are validated or aggregated.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a stored amount into a decimal.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted when the
// string contains a single separator. Negative values are rejected: the sign of
// a transaction is carried by its Type.
//
// Examples:
//
//	ParseAmount("50.00")  -> 50, nil
//	ParseAmount("12,5")   -> 12.5, nil
//	ParseAmount("-1")     -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = normalizeSeparator(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// NormalizeAmount validates s and returns it with surrounding space removed
// and a decimal comma turned into a dot. The digits are otherwise kept as
// entered, so "50.00" stays "50.00".
func NormalizeAmount(s string) (string, error) {
	if _, err := ParseAmount(s); err != nil {
		return "", err
	}
	return normalizeSeparator(s), nil
}

func normalizeSeparator(s string) string {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}
