package csvimport

import (
	"strings"
	"testing"

	"github.com/estate/backend/internal/domain/payout"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1500", "1500"},
		{"1500.50", "1500.5"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1234,5", "1234.5"},
		{"1,000,000", "1000000"},
		{"1.000.000", "1000000"},
		{"1,234", "1234"},
		{"1.234", "1234"},
		{"₺ 2.500,00", "2500"},
		{"2500 TRY", "2500"},
		{"150 tl", "150"},
		{"-10", "-10"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in, valueobject.TRY)
			require.NoError(t, err)
			assert.Equal(t, valueobject.TRY, got.Currency())
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got.Decimal()), "got %s", got)
		})
	}

	rejected := map[string]string{
		"":          "no digits",
		"abc":       "no digits",
		".,":        "misplaced thousands separator",
		"1-2":       "minus sign",
		"1e5":       "unexpected character",
		"12abc34":   "unexpected character",
		"1O0":       "unexpected character",
		"1.2345":    "more than 2 decimal places",
		"1234.567":  "more than 2 decimal places",
		"0,500":     "more than 2 decimal places",
		"12,34,56":  "misplaced thousands separator",
		"1.234.5":   "misplaced thousands separator",
		"1,2.3,4":   "decimal separator appears more than once",
		"12.":       "missing digits after",
		"100 USD":   "amount is in USD, expected TRY",
		"$100":      "amount is in USD, expected TRY",
		"EUR 5 TRY": "both sides",
		"5 dollars": "unexpected text",
	}
	for in, reason := range rejected {
		t.Run("rejects "+in, func(t *testing.T) {
			_, err := ParseAmount(in, valueobject.TRY)
			require.Error(t, err)
			assert.Contains(t, err.Error(), reason)
		})
	}

	t.Run("currency without minor units", func(t *testing.T) {
		jpy := valueobject.Currency("JPY")
		got, err := ParseAmount("1.500", jpy)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), got.Minor())

		_, err = ParseAmount("12.5", jpy)
		assert.ErrorContains(t, err, "more than 0 decimal places")
	})
}

func TestParsePayoutRows(t *testing.T) {
	sheet := &Sheet{
		Headers: []string{"broker_email", "Payment Amount", "payment method", "Reference No", "Note"},
		Rows: []*Row{
			newRow(2, []string{"broker_email", "Payment Amount", "payment method", "Reference No", "Note"},
				[]string{"ali@example.com", "1.250,50", "EFT", "TR-1", "March"}),
			newRow(3, []string{"broker_email", "Payment Amount", "payment method", "Reference No", "Note"},
				[]string{"veli@example.com", "lots", "", "", ""}),
			newRow(4, []string{"broker_email", "Payment Amount", "payment method", "Reference No", "Note"},
				[]string{"ayse@example.com", "100", "crypto", "", ""}),
			newRow(5, []string{"broker_email", "Payment Amount", "payment method", "Reference No", "Note"},
				[]string{"can@example.com", "", "", "", ""}),
		},
	}

	rows, errs, err := ParsePayoutRows(sheet, valueobject.TRY, 10)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Nil(t, rows[0].ParseError)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, int64(125050), rows[0].Amount.Minor())
	assert.Equal(t, payout.PaymentMethodBankTransfer, rows[0].Method)
	assert.Equal(t, "TR-1", rows[0].Reference)

	require.NotNil(t, rows[1].ParseError)
	assert.Equal(t, "paymentAmount", rows[1].ParseError.Field)
	assert.Equal(t, valueobject.TRY, rows[1].Amount.Currency())

	require.NotNil(t, rows[2].ParseError)
	assert.Equal(t, shared.CodeValidation, rows[2].ParseError.Code)
	assert.Equal(t, "paymentMethod", rows[2].ParseError.Field)

	require.NotNil(t, rows[3].ParseError)
	assert.Equal(t, 3, errs.TotalCount())
	assert.False(t, errs.IsTruncated())
}

func TestParsePayoutRows_FieldRules(t *testing.T) {
	headers := []string{"Broker Email", "Payment Amount", "Reference No"}
	sheet := &Sheet{
		Headers: headers,
		Rows: []*Row{
			newRow(2, headers, []string{"Ali <ali@example.com>", "100", ""}),
			newRow(3, headers, []string{"", "100", ""}),
			newRow(4, headers, []string{"ali@example.com", "100", strings.Repeat("R", 101)}),
			newRow(5, headers, []string{"not-an-email", "lots", ""}),
			newRow(6, headers, []string{"ali@example.com", "1.234", "R-6"}),
		},
	}

	rows, errs, err := ParsePayoutRows(sheet, valueobject.TRY, 10)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	fields := make([]string, 0, 4)
	for _, r := range rows[:4] {
		require.NotNil(t, r.ParseError, "line %d", r.Line)
		fields = append(fields, r.ParseError.Field)
	}
	assert.Equal(t, []string{"brokerEmail", "brokerEmail", "reference", "brokerEmail"}, fields)

	kept := errs.Errors()
	require.Len(t, kept, 4, "one error per row")
	assert.Equal(t, ErrCodeImportInvalidFormat, kept[0].Code)
	assert.Equal(t, ErrCodeImportRequiredField, kept[1].Code)
	assert.Equal(t, ErrCodeImportTooLong, kept[2].Code)
	assert.Equal(t, ColumnReferenceNo, kept[2].Column)

	require.Nil(t, rows[4].ParseError)
	assert.Equal(t, int64(123400), rows[4].Amount.Minor())
	assert.Equal(t, payout.PaymentMethodBankTransfer, rows[4].Method)
}

func TestParsePayoutRows_MissingColumns(t *testing.T) {
	_, _, err := ParsePayoutRows(&Sheet{Headers: []string{"Email", "Amount"}}, valueobject.TRY, 10)
	assert.ErrorIs(t, err, ErrMissingHeader)
	assert.Contains(t, err.Error(), "Broker Email")
}
