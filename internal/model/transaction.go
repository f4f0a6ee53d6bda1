package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Import source constants for Transaction.Source.
const (
	SourceImportCSV = "import_csv"
	SourceImportPDF = "import_pdf"
	SourceImportOFX = "import_ofx"
)

// Transaction is a confirmed ledger entry. The import core only appends these
// through the ledger sink and reads them back for duplicate and history checks.
type Transaction struct {
	Date           time.Time
	CreatedAt      time.Time
	ID             string
	UserID         string
	RawDescription string
	Category       string
	Source         string
	Direction      Direction
	Amount         decimal.Decimal
}

// DuplicateFlag annotates a RawRow with the result of duplicate detection.
// It never blocks import; the user decides whether to exclude flagged rows.
type DuplicateFlag struct {
	MatchID        string // ID of the suspected existing ledger entry
	CandidateCount int    // same-window/same-amount/same-direction candidates
	Similarity     float64
	IsDuplicate    bool
}

// BankProfile records which adapter parsed a file and how confident detection
// was. Chosen once per file, either from a caller hint or by scoring every
// registered adapter.
type BankProfile struct {
	BankID              string
	DetectionConfidence float64
}
