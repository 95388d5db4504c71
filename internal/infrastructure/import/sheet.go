package csvimport

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Row is one data row keyed by header
type Row struct {
	LineNumber int
	Data       map[string]string
}

func newRow(line int, headers, fields []string) *Row {
	row := &Row{LineNumber: line, Data: make(map[string]string, len(headers))}
	for i, h := range headers {
		if i < len(fields) {
			row.Data[h] = strings.TrimSpace(fields[i])
		} else {
			row.Data[h] = ""
		}
	}
	return row
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Sheet is a header row plus data rows, whatever the file format
type Sheet struct {
	Headers []string
	Rows    []*Row
}

// Limits bounds what ReadSheet accepts
type Limits struct {
	MaxFileSize   int64
	MaxRows       int
	LegacyCharset string
}

var zipMagic = []byte("PK\x03\x04")

// ReadSheet reads a CSV or XLSX upload. The format comes from the file
// extension, falling back to content sniffing when the name has none.
func ReadSheet(filename string, data []byte, limits Limits) (*Sheet, error) {
	if limits.MaxFileSize > 0 && int64(len(data)) > limits.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	var (
		sheet *Sheet
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); {
	case ext == ".xlsx" || (ext == "" && bytes.HasPrefix(data, zipMagic)):
		sheet, err = ReadXLSX(data)
	case ext == ".csv" || ext == ".txt" || ext == "":
		var parser *CSVParser
		parser, err = NewCSVParser(data, WithLegacyCharset(limits.LegacyCharset))
		if err == nil {
			sheet, err = parser.ReadAll()
		}
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	if len(sheet.Rows) == 0 {
		return nil, ErrNoDataRows
	}
	if limits.MaxRows > 0 && len(sheet.Rows) > limits.MaxRows {
		return nil, ErrTooManyRows
	}
	return sheet, nil
}
