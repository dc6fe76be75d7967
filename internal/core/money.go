// Package core provides money parsing and handling utilities.
//
// Amounts are decimal values rather than floats so that sums such as
// 150.50 + 650.99 stay exact.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a currency-agnostic decimal amount.
type Money struct {
	decimal.Decimal
}

// Zero is the empty amount. It doubles as the "no budget" sentinel.
var Zero = Money{Decimal: decimal.Zero}

// NewMoney builds an amount from a float literal. Intended for constants and tests.
func NewMoney(v float64) Money {
	return Money{Decimal: decimal.NewFromFloat(v)}
}

// ParseAmount converts a decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for invalid formats, signs, or non-positive values.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> error
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Zero, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "eE") {
		return Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrInvalidAmount
	}
	m := Money{Decimal: d}
	if err := m.Validate(); err != nil {
		return Zero, err
	}
	return m, nil
}

// Validate rejects zero and negative amounts.
func (m Money) Validate() error {
	if !m.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

func (m Money) Sub(o Money) Money {
	return Money{Decimal: m.Decimal.Sub(o.Decimal)}
}

func (m Money) Abs() Money {
	return Money{Decimal: m.Decimal.Abs()}
}

// Equal compares by value, so 1.5 equals 1.50.
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// Percent returns m/of*100. The caller guarantees of is nonzero.
func (m Money) Percent(of Money) decimal.Decimal {
	return m.Decimal.Div(of.Decimal).Mul(decimal.NewFromInt(100))
}

// Display renders the amount with two decimals and no currency symbol.
// Formatting for a locale is the renderer's job.
func (m Money) Display() string {
	return m.StringFixed(2)
}
