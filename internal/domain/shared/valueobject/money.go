package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money is a value object holding an amount in integer minor units
// (kuruş, cents) of its currency. It is immutable - all operations
// return new Money instances. Decimal values only appear at the
// parsing and formatting boundary.
type Money struct {
	minor    int64
	currency Currency
}

// NewMoney creates Money from a decimal amount, rounding half away from
// zero to the currency's minor-unit scale
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("invalid currency %q", currency)
	}
	minor := amount.Shift(currency.Scale()).Round(0)
	if !inRange(minor) {
		return Money{}, ErrAmountOutOfRange
	}
	return Money{minor: minor.IntPart(), currency: currency}, nil
}

// maxMinor keeps sums of many amounts well inside int64
const maxMinor = int64(1) << 52

// ErrAmountOutOfRange is returned when a computed amount would not fit in
// the minor-unit range
var ErrAmountOutOfRange = errors.New("amount out of range")

func inRange(minor decimal.Decimal) bool {
	return minor.IsInteger() && minor.Abs().LessThanOrEqual(decimal.NewFromInt(maxMinor))
}

// NewMoneyFromMinor creates Money from an amount already in minor units
func NewMoneyFromMinor(minor int64, currency Currency) Money {
	return Money{minor: minor, currency: currency}
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// MustMoney is NewMoneyFromString for literals known to be valid
func MustMoney(amount string, currency Currency) Money {
	m, err := NewMoneyFromString(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{currency: currency}
}

// Minor returns the amount in minor units
func (m Money) Minor() int64 {
	return m.minor
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Decimal returns the amount in major units
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -m.currency.Scale())
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.minor == 0
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.minor > 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.minor < 0
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{minor: m.minor + other.minor, currency: m.currency}, nil
}

// Subtract returns a new Money with the difference
// Returns error if currencies don't match
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{minor: m.minor - other.minor, currency: m.currency}, nil
}

// Min returns the smaller amount; both must share a currency
func (m Money) Min(other Money) Money {
	if other.minor < m.minor {
		return Money{minor: other.minor, currency: m.currency}
	}
	return m
}

// Percent returns rate percent of m, rounded half away from zero
func (m Money) Percent(rate decimal.Decimal) (Money, error) {
	return m.MulRate(rate.Div(hundred))
}

// MulRate returns m multiplied by a decimal factor, rounded half away from
// zero. Results past the minor-unit range fail with ErrAmountOutOfRange.
func (m Money) MulRate(factor decimal.Decimal) (Money, error) {
	v := decimal.NewFromInt(m.minor).Mul(factor).Round(0)
	if !inRange(v) {
		return Money{}, ErrAmountOutOfRange
	}
	return Money{minor: v.IntPart(), currency: m.currency}, nil
}

// Split divides m into n parts. Every part but the last gets the rounded
// share and the last absorbs the rounding remainder. When that would make
// the last part negative, parts get the floored share and the leftover
// minor units go one each to the trailing parts. Parts always sum to m.
func (m Money) Split(n int) ([]Money, error) {
	if n <= 0 {
		return nil, errors.New("split count must be positive")
	}
	if m.minor < 0 {
		return nil, errors.New("cannot split a negative amount")
	}

	count := int64(n)
	parts := make([]Money, n)

	base := (2*m.minor + count) / (2 * count)
	last := m.minor - base*(count-1)
	if last >= 0 {
		for i := range parts {
			parts[i] = Money{minor: base, currency: m.currency}
		}
		parts[n-1].minor = last
		return parts, nil
	}

	base = m.minor / count
	leftover := m.minor - base*count
	for i := range parts {
		parts[i] = Money{minor: base, currency: m.currency}
		if int64(n-i) <= leftover {
			parts[i].minor++
		}
	}
	return parts, nil
}

// Sum adds amounts that all share currency
func Sum(currency Currency, amounts ...Money) (Money, error) {
	total := Zero(currency)
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.minor == other.minor
}

// Compare returns -1, 0 or 1. Returns error if currencies don't match
func (m Money) Compare(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	switch {
	case m.minor < other.minor:
		return -1, nil
	case m.minor > other.minor:
		return 1, nil
	default:
		return 0, nil
	}
}

// StringFixed returns the amount in major units with the currency's scale
func (m Money) StringFixed() string {
	return m.Decimal().StringFixed(m.currency.Scale())
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.StringFixed(), m.currency)
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.StringFixed(),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewMoneyFromString(v.Amount, v.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
