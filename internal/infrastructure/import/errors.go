package csvimport

import (
	"errors"
	"fmt"
)

// Row-level error codes reported back to the uploader
const (
	ErrCodeImportRequiredField = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeImportInvalidFormat = "ERR_IMPORT_INVALID_FORMAT"
	ErrCodeImportMalformedRow  = "ERR_IMPORT_MALFORMED_ROW"
	ErrCodeImportTooLong       = "ERR_IMPORT_VALUE_TOO_LONG"
)

// File-level failures; the upload is rejected as a whole
var (
	ErrEmptyFile         = errors.New("file is empty")
	ErrInvalidEncoding   = errors.New("file is not valid UTF-8 and no legacy charset decoded it")
	ErrMissingHeader     = errors.New("file missing header row")
	ErrNoDataRows        = errors.New("file contains no payment rows")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrTooManyRows       = errors.New("file exceeds maximum allowed rows")
	ErrUnsupportedFormat = errors.New("unsupported file format, upload .csv or .xlsx")
)

// RowError is a cell or row that could not be read. Row is the 1-based
// line in the file, header included.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Message)
}

// ErrorCollection keeps the first max row errors and counts every one
type ErrorCollection struct {
	kept  []RowError
	max   int
	total int
}

// NewErrorCollection creates a collection that keeps up to max errors
func NewErrorCollection(max int) *ErrorCollection {
	if max <= 0 {
		max = 100
	}
	return &ErrorCollection{max: max}
}

// Add records err
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.kept) < ec.max {
		ec.kept = append(ec.kept, err)
	}
}

// Errors returns the kept errors in the order they were added
func (ec *ErrorCollection) Errors() []RowError { return ec.kept }

// TotalCount counts every error, kept or not
func (ec *ErrorCollection) TotalCount() int { return ec.total }

// IsTruncated reports whether errors were dropped past the limit
func (ec *ErrorCollection) IsTruncated() bool { return ec.total > ec.max }
