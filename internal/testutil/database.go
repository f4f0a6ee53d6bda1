// Package testutil provides shared helpers for tests that need a real
// database or realistic statement rows.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paperledger/bankstat/internal/model"
	"github.com/paperledger/bankstat/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite store. Cleanup is
// registered automatically.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// Row builds a valid expense RawRow with the given description and amount.
func Row(date time.Time, description string, amount float64) model.RawRow {
	direction := model.DirectionExpense
	if amount < 0 {
		amount = -amount
		direction = model.DirectionIncome
	}

	return model.RawRow{
		OccurredAt:     date,
		RawDescription: description,
		Direction:      direction,
		Amount:         decimal.NewFromFloat(amount).Round(2),
		Line:           1,
	}
}

// Txn builds a confirmed ledger entry ready for BulkInsert.
func Txn(userID string, date time.Time, description, category string, amount float64) model.Transaction {
	row := Row(date, description, amount)

	return model.Transaction{
		ID:             uuid.New().String(),
		UserID:         userID,
		Date:           row.OccurredAt,
		CreatedAt:      time.Now().UTC(),
		RawDescription: row.RawDescription,
		Category:       category,
		Source:         model.SourceImportCSV,
		Direction:      row.Direction,
		Amount:         row.Amount,
	}
}

// SeedTransactions inserts the entries through the normal bulk path.
func SeedTransactions(t *testing.T, store *storage.SQLiteStorage, userID string, txns ...model.Transaction) {
	t.Helper()

	if err := store.BulkInsert(context.Background(), userID, txns); err != nil {
		t.Fatalf("failed to seed transactions: %v", err)
	}
}
