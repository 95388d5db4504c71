package csvimport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Payments"}, f.GetSheetList())
	rows, err := f.GetRows("Payments")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, PayoutColumns, rows[0])
}

func TestReadXLSX(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Broker Email", "Payment Amount", "Payment Method"},
		{"ali@example.com", 1500.5, "Cash"},
		{"", "", ""},
		{"veli@example.com", "2.000,00", ""},
	})

	sheet, err := ReadSheet("bulk.xlsx", data, Limits{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Broker Email", "Payment Amount", "Payment Method"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, 2, sheet.Rows[0].LineNumber)
	assert.Equal(t, "1500.5", sheet.Rows[0].Get("Payment Amount"))
	assert.Equal(t, 4, sheet.Rows[1].LineNumber)

	t.Run("sniffed without extension", func(t *testing.T) {
		sheet, err := ReadSheet("upload", data, Limits{})
		require.NoError(t, err)
		assert.Len(t, sheet.Rows, 2)
	})

	t.Run("template round-trips as header only", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTemplate(&buf))
		_, err := ReadSheet("template.xlsx", buf.Bytes(), Limits{})
		assert.ErrorIs(t, err, ErrNoDataRows)
	})
}
