// Package mcc provides the static Merchant Category Code reference table.
package mcc

// Code is one entry of the MCC reference data.
type Code struct {
	Code     string
	Name     string
	Category string
}

// Table maps 4-digit MCC codes to suggested categories. Read-only after New.
type Table struct {
	byCode map[string]Code
}

// New builds a lookup table. Later duplicates of a code win, so callers can
// layer overrides on top of DefaultCodes.
func New(codes []Code) *Table {
	t := &Table{byCode: make(map[string]Code, len(codes))}
	for _, c := range codes {
		t.byCode[c.Code] = c
	}
	return t
}

// Default returns the table seeded with DefaultCodes.
func Default() *Table {
	return New(DefaultCodes())
}

// Lookup returns the suggested category for a code.
func (t *Table) Lookup(code string) (string, bool) {
	c, ok := t.byCode[code]
	if !ok || c.Category == "" {
		return "", false
	}
	return c.Category, true
}

// Len reports the number of codes loaded.
func (t *Table) Len() int {
	return len(t.byCode)
}
