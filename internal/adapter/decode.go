package adapter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Table is a decoded delimited or spreadsheet export: a lowercased header
// plus data records, with the 1-based source line of the first data record.
type Table struct {
	Header    []string
	Records   [][]string
	FirstLine int
}

// Column returns the index of the named header column, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumns reports whether every named column is present.
func (t *Table) HasColumns(names ...string) bool {
	for _, n := range names {
		if t.Column(n) < 0 {
			return false
		}
	}
	return true
}

// Field returns the trimmed cell at column idx of a record, or "".
func Field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

var xlsxMagic = []byte("PK\x03\x04")

// DecodeTable turns raw statement bytes into a Table. XLSX content is read
// through excelize; delimited text is tried as UTF-8, then cp1251 (Sber
// exports), then cp1252, with comma, semicolon, and tab separators.
func DecodeTable(content []byte) (*Table, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty file content")
	}

	if bytes.HasPrefix(content, xlsxMagic) {
		return decodeXLSX(content)
	}

	text, err := decodeText(content)
	if err != nil {
		return nil, err
	}

	for _, sep := range []rune{',', ';', '\t'} {
		table, err := decodeCSV(text, sep)
		if err == nil && len(table.Header) > 1 {
			return table, nil
		}
	}

	return nil, fmt.Errorf("could not split file into columns with any known separator")
}

func decodeText(content []byte) (string, error) {
	// Strip a UTF-8 BOM if present.
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	if utf8.Valid(content) {
		return string(content), nil
	}

	for _, enc := range []encoding.Encoding{charmap.Windows1251, charmap.Windows1252} {
		decoded, err := enc.NewDecoder().Bytes(content)
		if err == nil && utf8.Valid(decoded) {
			return string(decoded), nil
		}
	}

	return "", fmt.Errorf("could not decode file with any known encoding")
}

func decodeCSV(text string, sep rune) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading delimited text: %w", err)
	}
	return tableFromRecords(records)
}

func decodeXLSX(content []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return tableFromRecords(rows)
}

func tableFromRecords(records [][]string) (*Table, error) {
	// Skip leading blank records so a title line above the header does not
	// break column mapping.
	start := 0
	for start < len(records) && isBlankRecord(records[start]) {
		start++
	}
	if start >= len(records) {
		return nil, fmt.Errorf("no header row found")
	}

	header := make([]string, len(records[start]))
	for i, h := range records[start] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	return &Table{
		Header:    header,
		Records:   records[start+1:],
		FirstLine: start + 2, // 1-based, first record after the header
	}, nil
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
