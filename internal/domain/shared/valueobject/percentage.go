package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Percentage is a rate expressed in percent, so 1.5 means 1.5 %
type Percentage struct {
	value decimal.Decimal
}

// NewPercentage creates a non-negative percentage
func NewPercentage(value decimal.Decimal) (Percentage, error) {
	if value.IsNegative() {
		return Percentage{}, errors.New("percentage cannot be negative")
	}
	return Percentage{value: value}, nil
}

// ParsePercentage parses a decimal string such as "2.5"
func ParsePercentage(s string) (Percentage, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Percentage{}, fmt.Errorf("invalid percentage: %w", err)
	}
	return NewPercentage(d)
}

// MustPercentage is ParsePercentage for literals known to be valid
func MustPercentage(s string) Percentage {
	p, err := ParsePercentage(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Decimal returns the value in percent
func (p Percentage) Decimal() decimal.Decimal {
	return p.value
}

// IsZero returns true for 0 %
func (p Percentage) IsZero() bool {
	return p.value.IsZero()
}

// AtMostHundred reports whether the value lies in [0, 100]
func (p Percentage) AtMostHundred() bool {
	return p.value.LessThanOrEqual(hundred)
}

// Of applies the percentage to an amount
func (p Percentage) Of(m Money) (Money, error) {
	return m.Percent(p.value)
}

// String returns the value without a percent sign
func (p Percentage) String() string {
	return p.value.String()
}

// MarshalJSON encodes the value as a decimal string
func (p Percentage) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.value.String())
}
