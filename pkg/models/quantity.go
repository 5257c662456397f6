package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Quantity is an exact decimal measure (grams, millilitres, pieces). Like
// Money it round-trips through YAML as a string.
type Quantity struct {
	dec decimal.Decimal
}

// NewQuantity wraps a decimal value as a Quantity.
func NewQuantity(d decimal.Decimal) Quantity {
	return Quantity{dec: d}
}

// QuantityFromString parses a decimal string into a Quantity.
func QuantityFromString(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("parsing quantity %q: %w", s, err)
	}
	return Quantity{dec: d}, nil
}

// QuantityFromInt wraps a whole-number count as a Quantity.
func QuantityFromInt(n int64) Quantity {
	return Quantity{dec: decimal.NewFromInt(n)}
}

// Decimal returns the underlying decimal value.
func (q Quantity) Decimal() decimal.Decimal {
	return q.dec
}

// Add returns q + other.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{dec: q.dec.Add(other.dec)}
}

// IsPositive reports whether the quantity is greater than zero.
func (q Quantity) IsPositive() bool {
	return q.dec.IsPositive()
}

// String formats the quantity as a plain decimal string.
func (q Quantity) String() string {
	return q.dec.String()
}

// MarshalYAML encodes the quantity as a decimal string.
func (q Quantity) MarshalYAML() (interface{}, error) {
	return q.dec.String(), nil
}

// UnmarshalYAML decodes a decimal string (or bare YAML number) into a Quantity.
func (q *Quantity) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("parsing quantity value %q: %w", value.Value, err)
	}
	q.dec = d
	return nil
}

// MarshalJSON encodes the quantity as a JSON string.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + q.dec.String() + `"`), nil
}

// UnmarshalJSON decodes a JSON string or number into a Quantity.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("parsing quantity value %s: %w", data, err)
	}
	q.dec = d
	return nil
}
