package valueobject

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	TRY Currency = "TRY" // Turkish Lira (default)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = TRY

// ParseCurrency normalizes and validates an ISO 4217 code
func ParseCurrency(code string) (Currency, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "", fmt.Errorf("currency cannot be empty")
	}
	if _, err := currency.ParseISO(normalized); err != nil {
		return "", fmt.Errorf("unknown currency %q", code)
	}
	return Currency(normalized), nil
}

// IsValid returns true if the code is a recognized ISO 4217 currency
func (c Currency) IsValid() bool {
	if c == "" {
		return false
	}
	_, err := currency.ParseISO(string(c))
	return err == nil
}

// Scale returns the number of minor-unit digits for the currency
// (2 for TRY and USD, 0 for JPY). Unknown codes use 2.
func (c Currency) Scale() int32 {
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}
