// Package importer orchestrates the statement import flow: adapter
// selection, parsing, duplicate flagging, categorization, and the
// preview/confirm commit protocol.
package importer

import (
	"github.com/paperledger/bankstat/internal/adapter"
	"github.com/paperledger/bankstat/internal/model"
)

// PreviewRow is one statement row with everything the user needs to review
// it: the parsed values, the category suggestion, and the duplicate flag.
type PreviewRow struct {
	Row            model.RawRow               `json:"row"`
	Categorization model.CategorizationResult `json:"categorization"`
	Duplicate      model.DuplicateFlag        `json:"duplicate"`
}

// Summary counts rows per review bucket so the caller can sort its queue.
type Summary struct {
	Total          int `json:"total"`
	HighConfidence int `json:"high_confidence"`
	MedConfidence  int `json:"medium_confidence"`
	LowConfidence  int `json:"low_confidence"`
	Duplicates     int `json:"duplicates"`
}

// PreviewResult is the read-only output of one preview call.
type PreviewResult struct {
	DetectedBank model.BankProfile      `json:"detected_bank"`
	Rows         []PreviewRow           `json:"rows"`
	Warnings     []adapter.ParseWarning `json:"warnings,omitempty"`
	Summary      Summary                `json:"summary"`
}

// ConfirmRow is one row coming back from review, possibly edited.
type ConfirmRow struct {
	Row model.RawRow `json:"row"`
	// Category is the user's final choice; defaults to the suggestion.
	Category string `json:"category"`
	// SuggestedCategory is what the engine proposed at preview time; needed
	// to decide whether the user corrected it.
	SuggestedCategory string            `json:"suggested_category"`
	Source            model.MatchSource `json:"source"`
	Include           bool              `json:"include"`
	IsDuplicate       bool              `json:"is_duplicate"`
}

// ConfirmRequest is the commit half of the protocol.
type ConfirmRequest struct {
	Rows []ConfirmRow `json:"rows"`
	// AllowDuplicates keeps rows still flagged as duplicates in the batch.
	AllowDuplicates bool `json:"allow_duplicates"`
	// Source labels the ledger entries, e.g. model.SourceImportCSV.
	Source string `json:"source"`
}

// ImportResult reports a successful confirm.
type ImportResult struct {
	ImportedCount   int `json:"imported_count"`
	PatternsLearned int `json:"patterns_learned"`
}
