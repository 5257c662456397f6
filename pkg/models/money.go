package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Money is an exact fixed-point monetary amount. It wraps decimal.Decimal
// so amounts round-trip through YAML as strings and never pass through
// binary floating point.
type Money struct {
	dec decimal.Decimal
}

// NewMoney wraps a decimal amount as Money.
func NewMoney(d decimal.Decimal) Money {
	return Money{dec: d}
}

// MoneyFromString parses a decimal string (e.g. "12.50") into Money.
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return Money{dec: d}, nil
}

// MoneyFromInt wraps a whole-unit integer amount as Money.
func MoneyFromInt(n int64) Money {
	return Money{dec: decimal.NewFromInt(n)}
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{dec: decimal.Zero}
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.dec
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{dec: m.dec.Add(other.dec)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{dec: m.dec.Sub(other.dec)}
}

// Mul returns m scaled by the given factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{dec: m.dec.Mul(factor)}
}

// Div returns m divided by the given divisor.
func (m Money) Div(divisor decimal.Decimal) Money {
	return Money{dec: m.dec.Div(divisor)}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.dec.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.dec.IsNegative()
}

// Equal reports whether two amounts are numerically equal.
func (m Money) Equal(other Money) bool {
	return m.dec.Equal(other.dec)
}

// Cmp compares m against other: -1 if less, 0 if equal, +1 if greater.
func (m Money) Cmp(other Money) int {
	return m.dec.Cmp(other.dec)
}

// String formats the amount as a plain decimal string.
func (m Money) String() string {
	return m.dec.String()
}

// StringFixed formats the amount with a fixed number of decimal places.
func (m Money) StringFixed(places int32) string {
	return m.dec.StringFixed(places)
}

// MarshalYAML encodes the amount as a decimal string.
func (m Money) MarshalYAML() (interface{}, error) {
	return m.dec.String(), nil
}

// UnmarshalYAML decodes a decimal string (or bare YAML number) into Money.
func (m *Money) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("parsing money value %q: %w", value.Value, err)
	}
	m.dec = d
	return nil
}

// MarshalJSON encodes the amount as a JSON string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.dec.String() + `"`), nil
}

// UnmarshalJSON decodes a JSON string or number into Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("parsing money value %s: %w", data, err)
	}
	m.dec = d
	return nil
}
