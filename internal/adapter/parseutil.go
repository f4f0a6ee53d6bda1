package adapter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDateFormats covers the date dialects seen across supported bank
// exports, day-first formats before month-first.
var DefaultDateFormats = []string{
	"02.01.2006 15:04:05",
	"02.01.2006",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"02.01.06",
}

var amountCleaner = strings.NewReplacer(
	" ", "",
	" ", "", // non-breaking space used as thousands separator
	"₽", "",
	"$", "",
	"€", "",
	"£", "",
	",", ".",
)

// ParseAmount parses a statement amount: spaces and currency symbols
// stripped, comma accepted as the decimal separator. The sign is preserved.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := amountCleaner.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	// "1.234.56" after comma replacement means dots were thousands
	// separators; keep only the last one.
	if strings.Count(cleaned, ".") > 1 {
		last := strings.LastIndex(cleaned, ".")
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// ParseDate tries each format in order; with no formats supplied it uses
// DefaultDateFormats.
func ParseDate(s string, formats ...string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if len(formats) == 0 {
		formats = DefaultDateFormats
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// CleanMCC normalizes a merchant code cell: spreadsheet tools often render
// codes as floats ("5411.0"); codes are at most 4 digits.
func CleanMCC(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 4 {
		s = s[:4]
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}
