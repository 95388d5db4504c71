package csvimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVParser handles parsing of CSV files with encoding and delimiter detection
type CSVParser struct {
	delimiter rune
	fallback  encoding.Encoding
	headers   []string
	current   int
	reader    *csv.Reader
}

// ParserOption is a functional option for CSVParser configuration
type ParserOption func(*CSVParser)

// WithDelimiter fixes the field delimiter instead of detecting it
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithLegacyCharset decodes content that is not valid UTF-8 with the named
// IANA charset, e.g. "windows-1254" for files saved by Turkish Excel
func WithLegacyCharset(name string) ParserOption {
	return func(p *CSVParser) {
		if name == "" {
			return
		}
		if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
			p.fallback = enc
		}
	}
}

// NewCSVParser creates a parser over data. A UTF-8 BOM is stripped; content
// that is not UTF-8 is decoded with the legacy charset when one is set.
func NewCSVParser(data []byte, opts ...ParserOption) (*CSVParser, error) {
	p := &CSVParser{}
	for _, opt := range opts {
		opt(p)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(data) {
		if p.fallback == nil {
			return nil, ErrInvalidEncoding
		}
		decoded, err := p.fallback.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
		data = decoded
	}

	if p.delimiter == 0 {
		p.delimiter = detectDelimiter(data)
	}

	p.reader = csv.NewReader(bytes.NewReader(data))
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1
	return p, nil
}

// detectDelimiter picks the most frequent of comma, semicolon and tab on the
// header line. Spreadsheets in comma-decimal locales export with semicolons.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// Delimiter returns the delimiter in use
func (p *CSVParser) Delimiter() rune {
	return p.delimiter
}

// ParseHeader reads the header row
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	p.headers = make([]string, len(record))
	for i, h := range record {
		p.headers[i] = strings.TrimSpace(h)
	}
	p.current = 1
	return nil
}

// Headers returns the parsed header names
func (p *CSVParser) Headers() []string {
	return p.headers
}

// ReadRow reads the next row. Line numbers count the header as line 1.
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.current++
	if err != nil {
		return nil, RowError{Row: p.current, Code: ErrCodeImportMalformedRow, Message: err.Error()}
	}
	return newRow(p.current, p.headers, record), nil
}

// ReadAll reads the header and every non-empty row into a Sheet
func (p *CSVParser) ReadAll() (*Sheet, error) {
	if err := p.ParseHeader(); err != nil {
		return nil, err
	}
	sheet := &Sheet{Headers: p.headers}
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			return sheet, nil
		}
		if err != nil {
			return nil, err
		}
		if !row.IsEmpty() {
			sheet.Rows = append(sheet.Rows, row)
		}
	}
}
