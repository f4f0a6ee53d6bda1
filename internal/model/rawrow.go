// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether a transaction moves money in or out.
type Direction string

const (
	// DirectionIncome represents money coming into the account.
	DirectionIncome Direction = "income"
	// DirectionExpense represents money leaving the account.
	DirectionExpense Direction = "expense"
)

// RawRow is a single statement line as produced by a bank adapter.
// It is immutable once parsed and lives only for one preview/confirm cycle.
type RawRow struct {
	OccurredAt     time.Time
	RawDescription string
	MerchantCode   string // optional 4-digit MCC, bank-dependent
	Direction      Direction
	Amount         decimal.Decimal // always non-negative; Direction carries the sign
	Line           int             // 1-based line number in the source file
}

// Validate reports why a row cannot proceed to categorization, or nil.
func (r RawRow) Validate() error {
	if r.OccurredAt.IsZero() {
		return &ValidationError{Line: r.Line, Field: "occurred_at", Reason: "missing or unparseable date"}
	}
	if r.Amount.IsZero() {
		return &ValidationError{Line: r.Line, Field: "amount", Reason: "zero or unparseable amount"}
	}
	if r.Direction != DirectionIncome && r.Direction != DirectionExpense {
		return &ValidationError{Line: r.Line, Field: "direction", Reason: "unknown direction"}
	}
	return nil
}

// ValidationError describes a parsed row missing a required field.
type ValidationError struct {
	Field  string
	Reason string
	Line   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: invalid %s: %s", e.Line, e.Field, e.Reason)
}
