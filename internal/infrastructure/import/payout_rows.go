package csvimport

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/estate/backend/internal/domain/payout"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Bulk payment file columns, in template order
const (
	ColumnBrokerEmail   = "Broker Email"
	ColumnPaymentAmount = "Payment Amount"
	ColumnPaymentMethod = "Payment Method"
	ColumnReferenceNo   = "Reference No"
	ColumnNote          = "Note"
)

// PayoutColumns lists the bulk payment columns in template order
var PayoutColumns = []string{ColumnBrokerEmail, ColumnPaymentAmount, ColumnPaymentMethod, ColumnReferenceNo, ColumnNote}

var requiredPayoutColumns = []string{ColumnBrokerEmail, ColumnPaymentAmount}

func headerKey(h string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '.' || r == '-' {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}

// payoutRules checks the five template columns in file order. Amounts must
// parse in currency; the method must be a known payment method.
func payoutRules(currency valueobject.Currency) []FieldRule {
	return []FieldRule{
		Field(ColumnBrokerEmail, "brokerEmail").Required().Email().MaxLength(254).Build(),
		Field(ColumnPaymentAmount, "paymentAmount").Required().Custom(func(v string) error {
			_, err := ParseAmount(v, currency)
			return err
		}).Build(),
		Field(ColumnPaymentMethod, "paymentMethod").Custom(func(v string) error {
			_, err := payout.ParsePaymentMethod(v)
			return err
		}).Build(),
		Field(ColumnReferenceNo, "reference").MaxLength(100).Build(),
		Field(ColumnNote, "note").MaxLength(1000).Build(),
	}
}

// ParsePayoutRows converts a sheet into bulk payment rows. Rows that cannot
// be read keep their line with ParseError set so they are reported, not
// dropped. Amounts are in currency; the file has no currency column.
func ParsePayoutRows(sheet *Sheet, currency valueobject.Currency, maxErrors int) ([]payout.BulkRow, *ErrorCollection, error) {
	columns := make(map[string]string, len(sheet.Headers))
	for _, h := range sheet.Headers {
		for _, c := range PayoutColumns {
			if headerKey(h) == headerKey(c) {
				columns[c] = h
			}
		}
	}
	var missing []string
	for _, c := range requiredPayoutColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: missing column(s) %s", ErrMissingHeader, strings.Join(missing, ", "))
	}

	errs := NewErrorCollection(maxErrors)
	validator := NewFieldValidator(payoutRules(currency), errs)
	rows := make([]payout.BulkRow, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		get := func(column string) string {
			if h, ok := columns[column]; ok {
				return r.Get(h)
			}
			return ""
		}
		bulk := payout.BulkRow{
			Line:        r.LineNumber,
			BrokerEmail: get(ColumnBrokerEmail),
			Amount:      valueobject.Zero(currency),
			Reference:   get(ColumnReferenceNo),
			Note:        get(ColumnNote),
		}
		if bulk.ParseError = validator.ValidateRow(r.LineNumber, get); bulk.ParseError == nil {
			// Both parse cleanly; the rules above already ran them.
			bulk.Amount, _ = ParseAmount(get(ColumnPaymentAmount), currency)
			bulk.Method, _ = payout.ParsePaymentMethod(get(ColumnPaymentMethod))
		}
		rows = append(rows, bulk)
	}
	return rows, errs, nil
}

var currencySymbols = map[string]valueobject.Currency{
	"₺":  valueobject.TRY,
	"TL": valueobject.TRY,
	"$":  valueobject.USD,
	"€":  valueobject.EUR,
	"£":  valueobject.GBP,
}

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-'
}

// ParseAmount reads an amount in currency. Both separator conventions are
// accepted ("1.234,56" and "1,234.56"). A lone separator followed by exactly
// three digits groups thousands, so "1.234" and "1,234" are both 1234 unless
// the currency itself has three decimals. A currency symbol or ISO code may
// lead or trail the number but must name currency. Any other character, and
// more decimals than the currency has minor units, is an error.
func ParseAmount(s string, currency valueobject.Currency) (valueobject.Money, error) {
	fail := func(reason string) (valueobject.Money, error) {
		return valueobject.Money{}, fmt.Errorf("invalid amount %q: %s", s, reason)
	}

	first := strings.IndexFunc(s, isNumberRune)
	if first < 0 {
		return fail("no digits")
	}
	last := strings.LastIndexFunc(s, isNumberRune)
	_, width := utf8.DecodeRuneInString(s[last:])
	prefix, body, suffix := strings.TrimSpace(s[:first]), s[first:last+width], strings.TrimSpace(s[last+width:])

	if prefix != "" && suffix != "" {
		return fail("text on both sides of the number")
	}
	if label := prefix + suffix; label != "" {
		named, ok := currencySymbols[strings.ToUpper(label)]
		if !ok {
			parsed, err := valueobject.ParseCurrency(label)
			if err != nil || len(label) != 3 {
				return fail(fmt.Sprintf("unexpected text %q", label))
			}
			named = parsed
		}
		if named != currency {
			return fail(fmt.Sprintf("amount is in %s, expected %s", named, currency))
		}
	}
	if i := strings.IndexFunc(body, func(r rune) bool { return !isNumberRune(r) }); i >= 0 {
		r, _ := utf8.DecodeRuneInString(body[i:])
		return fail(fmt.Sprintf("unexpected character %q", r))
	}

	negative := strings.HasPrefix(body, "-")
	body = strings.TrimPrefix(body, "-")
	if strings.Contains(body, "-") {
		return fail("minus sign inside the number")
	}

	normalized, err := normalizeSeparators(body, currency.Scale())
	if err != nil {
		return fail(err.Error())
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return fail("not a number")
	}
	if negative {
		d = d.Neg()
	}
	m, err := valueobject.NewMoney(d, currency)
	if err != nil {
		return fail(err.Error())
	}
	return m, nil
}

// normalizeSeparators rewrites body as plain digits with an optional "."
// decimal point
func normalizeSeparators(body string, scale int32) (string, error) {
	dots, commas := strings.Count(body, "."), strings.Count(body, ",")

	var intPart, frac string
	var group, decimalSep string
	switch {
	case dots == 0 && commas == 0:
		intPart = body
	case dots > 0 && commas > 0:
		decimalSep, group = ".", ","
		if strings.LastIndex(body, ",") > strings.LastIndex(body, ".") {
			decimalSep, group = ",", "."
		}
		if strings.Count(body, decimalSep) > 1 {
			return "", errors.New("decimal separator appears more than once")
		}
		i := strings.LastIndex(body, decimalSep)
		intPart, frac = body[:i], body[i+1:]
	default:
		sep, n := ".", dots
		if commas > 0 {
			sep, n = ",", commas
		}
		i := strings.LastIndex(body, sep)
		if n > 1 || (len(body)-i-1 == 3 && scale < 3 && validGroups(body, sep)) {
			intPart, group = body, sep
		} else {
			decimalSep = sep
			intPart, frac = body[:i], body[i+1:]
		}
	}

	if group != "" {
		if !validGroups(intPart, group) {
			return "", errors.New("misplaced thousands separator")
		}
		intPart = strings.ReplaceAll(intPart, group, "")
	}
	if !allDigits(intPart) {
		return "", errors.New("missing digits before the decimal separator")
	}
	if decimalSep == "" {
		return intPart, nil
	}
	if !allDigits(frac) {
		return "", errors.New("missing digits after the decimal separator")
	}
	if len(frac) > int(scale) {
		return "", fmt.Errorf("more than %d decimal places", scale)
	}
	return intPart + "." + frac, nil
}

// validGroups reports whether s is digit groups joined by sep, the first of
// one to three digits without a leading zero and the rest of exactly three
func validGroups(s, sep string) bool {
	parts := strings.Split(s, sep)
	if len(parts) < 2 {
		return false
	}
	lead := parts[0]
	if len(lead) == 0 || len(lead) > 3 || lead[0] == '0' || !allDigits(lead) {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 || !allDigits(p) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
