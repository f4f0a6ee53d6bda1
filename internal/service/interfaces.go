// Package service defines the contracts between the import core and its
// external collaborators: the transaction history, the pattern store, the
// category store, and the ledger sink.
package service

import (
	"context"
	"time"

	"github.com/paperledger/bankstat/internal/model"
)

// HistoryReader provides read-only access to previously confirmed
// transactions. Used by the duplicate detector (windowed) and by the
// history-fuzzy categorization tier (recent history).
type HistoryReader interface {
	// TransactionsInWindow returns the user's ledger entries with
	// Date in [from, to], newest first.
	TransactionsInWindow(ctx context.Context, userID string, from, to time.Time) ([]model.Transaction, error)

	// RecentTransactions returns up to limit of the user's most recently
	// recorded entries, newest first.
	RecentTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error)
}

// PatternStore holds per-user learned description patterns. The core reads a
// snapshot per request and appends/increments during confirm; it never
// deletes.
type PatternStore interface {
	// Patterns returns all of the user's patterns ordered by hit count
	// descending, then key ascending.
	Patterns(ctx context.Context, userID string) ([]model.Pattern, error)

	// UpsertPattern creates the pattern or increments its hit count when the
	// normalized key already exists.
	UpsertPattern(ctx context.Context, userID, key, rawDescription, category string) (*model.Pattern, error)
}

// CategoryStore resolves category names to user-scoped category records.
type CategoryStore interface {
	GetOrCreateCategory(ctx context.Context, userID, name string) (*model.Category, error)
}

// LedgerSink is the append-only destination for confirmed transactions.
// BulkInsert must be atomic over the whole batch.
type LedgerSink interface {
	BulkInsert(ctx context.Context, userID string, txns []model.Transaction) error
}

// Storage is the full persistence contract the CLI wires together.
type Storage interface {
	HistoryReader
	PatternStore
	CategoryStore
	LedgerSink

	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction is a database transaction. Confirm wraps one of these around
// the whole batch so a failure on any row rolls back every write.
type Transaction interface {
	Commit() error
	Rollback() error

	PatternStore
	CategoryStore
	LedgerSink
}
