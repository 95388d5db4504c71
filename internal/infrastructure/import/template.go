package csvimport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Payments"

// TemplateMethodLabels are offered as a drop-down in the method column
var TemplateMethodLabels = []string{"Bank Transfer", "Cash", "Check", "Other"}

// WriteTemplate writes an empty bulk payment workbook with exactly the five
// payout columns as its header row
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(PayoutColumns))
	for i, c := range PayoutColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(templateSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(PayoutColumns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(templateSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(templateSheet, "A", "E", 24); err != nil {
		return fmt.Errorf("set widths: %w", err)
	}

	dv := excelize.NewDataValidation(true)
	dv.Sqref = "C2:C5000"
	if err := dv.SetDropList(TemplateMethodLabels); err != nil {
		return fmt.Errorf("method list: %w", err)
	}
	if err := f.AddDataValidation(templateSheet, dv); err != nil {
		return fmt.Errorf("add method list: %w", err)
	}

	return f.Write(w)
}
