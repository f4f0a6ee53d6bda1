// Package adapter implements the bank adapter registry: format-specific
// parsers that normalize raw statement exports into RawRows.
package adapter

import (
	"context"

	"github.com/paperledger/bankstat/internal/model"
)

// ParseWarning records a source line that was dropped during parsing. Lines
// are never discarded silently; every dropped line keeps its number and a
// reason the user can review.
type ParseWarning struct {
	Reason string
	Line   int
}

// ParseResult is the output of one adapter run. Rows preserve source file
// order, which is the canonical order for all downstream row indices.
type ParseResult struct {
	Rows     []model.RawRow
	Warnings []ParseWarning
}

// Adapter recognizes and parses one bank's export dialect.
type Adapter interface {
	// Name identifies the adapter; it doubles as the bank hint value.
	Name() string

	// Detect scores how confident the adapter is that it can parse the
	// content, in [0,1]. Detect must not mutate anything.
	Detect(content []byte) float64

	// Parse converts the content into RawRows. Malformed lines go to
	// warnings; if nothing at all parses the caller treats the file as
	// structurally invalid.
	Parse(ctx context.Context, content []byte) (*ParseResult, error)
}
