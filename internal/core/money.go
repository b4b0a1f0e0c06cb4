// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer cents everywhere; decimal values only appear at
// the input and display boundary.
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(1 << 53)
)

// ParseDecimalToCents converts a user supplied amount to cents.
//
// It accepts "12.34", "12,34" and German grouping such as "1.234,56". When a
// comma is present, dots are treated as thousands separators. Rounding is
// half-up on the third decimal place. Zero and negative values are rejected.
//
// Examples:
//
//	ParseDecimalToCents("12,34")    -> 1234, nil
//	ParseDecimalToCents("1.234,56") -> 123456, nil
//	ParseDecimalToCents("12.345")   -> 1235, nil
func ParseDecimalToCents(s string) (int64, error) {
	cents, err := parseCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseNonNegativeCents is ParseDecimalToCents for values where zero is
// meaningful, like a savings rate. An empty string means zero.
func ParseNonNegativeCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	cents, err := parseCents(s)
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "€")
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Mul(hundred).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// EurosToCents converts a legacy euro amount stored as a float.
func EurosToCents(euros float64) int64 {
	return decimal.NewFromFloat(euros).Mul(hundred).Round(0).IntPart()
}

// Euros returns the euro value as a decimal for display purposes.
func (m Money) Euros() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

// Sub returns m minus o.
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// String formats the amount the German way: "-1.234,56 €".
func (m Money) String() string {
	abs := m.Euros().Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(abs, ".")

	var b strings.Builder
	if m.Cents < 0 {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	b.WriteString(" €")
	return b.String()
}

// MarshalJSON encodes the amount as plain cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, m.Cents, 10), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	cents, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Cents = cents
	return nil
}

// MarshalYAML encodes the amount as plain cents.
func (m Money) MarshalYAML() (any, error) {
	return m.Cents, nil
}
