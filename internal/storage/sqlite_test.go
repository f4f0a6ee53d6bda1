package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperledger/bankstat/internal/model"
)

func setupStore(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func makeTxn(id, userID string, date time.Time, description string, amount float64) model.Transaction {
	return model.Transaction{
		ID:             id,
		UserID:         userID,
		Date:           date,
		CreatedAt:      time.Now().UTC(),
		RawDescription: description,
		Category:       "Groceries",
		Source:         model.SourceImportCSV,
		Direction:      model.DirectionExpense,
		Amount:         decimal.NewFromFloat(amount),
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupStore(t)
	assert.NoError(t, store.Migrate(context.Background()))
}

func TestBulkInsertAndWindowQuery(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.BulkInsert(ctx, "user-1", []model.Transaction{
		makeTxn("txn-1", "user-1", base, "SHELL 4521", 45.50),
		makeTxn("txn-2", "user-1", base.Add(48*time.Hour), "PYATYOROCHKA", 500),
	}))

	got, err := store.TransactionsInWindow(ctx, "user-1", base.Add(-24*time.Hour), base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "txn-1", got[0].ID)
	assert.Equal(t, "SHELL 4521", got[0].RawDescription)
	assert.True(t, decimal.NewFromFloat(45.50).Equal(got[0].Amount))
	assert.Equal(t, model.DirectionExpense, got[0].Direction)
	assert.True(t, base.Equal(got[0].Date))
}

func TestTransactionsAreUserScoped(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.BulkInsert(ctx, "alice", []model.Transaction{
		makeTxn("txn-a", "alice", base, "SHELL", 10),
	}))
	require.NoError(t, store.BulkInsert(ctx, "bob", []model.Transaction{
		makeTxn("txn-b", "bob", base, "SHELL", 10),
	}))

	got, err := store.TransactionsInWindow(ctx, "alice", base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "txn-a", got[0].ID)
}

func TestRecentTransactionsOrderAndLimit(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var txns []model.Transaction
	for i := 0; i < 5; i++ {
		txn := makeTxn("txn-"+string(rune('a'+i)), "user-1", base.AddDate(0, 0, i), "DESC", 10)
		txn.CreatedAt = base.AddDate(0, 0, i)
		txns = append(txns, txn)
	}
	require.NoError(t, store.BulkInsert(ctx, "user-1", txns))

	got, err := store.RecentTransactions(ctx, "user-1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "txn-e", got[0].ID)
	assert.Equal(t, "txn-d", got[1].ID)
}

func TestBulkInsertValidation(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.BulkInsert(ctx, "user-1", nil)
	assert.Error(t, err)

	bad := makeTxn("", "user-1", time.Now(), "DESC", 10)
	err = store.BulkInsert(ctx, "user-1", []model.Transaction{bad})
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestUpsertPattern(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	p, err := store.UpsertPattern(ctx, "user-1", "shell 4521", "SHELL 4521", "Transport")
	require.NoError(t, err)
	assert.Equal(t, 1, p.HitCount)
	assert.Equal(t, "Transport", p.Category)

	// Same key again: hit count increments and the category can change.
	p, err = store.UpsertPattern(ctx, "user-1", "shell 4521", "SHELL 4521 GAS", "Business")
	require.NoError(t, err)
	assert.Equal(t, 2, p.HitCount)
	assert.Equal(t, "Business", p.Category)

	// Different user, same key: independent pattern.
	p, err = store.UpsertPattern(ctx, "user-2", "shell 4521", "SHELL 4521", "Transport")
	require.NoError(t, err)
	assert.Equal(t, 1, p.HitCount)
}

func TestPatternsOrdering(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.UpsertPattern(ctx, "user-1", "busy key", "BUSY", "Groceries")
		require.NoError(t, err)
	}
	_, err := store.UpsertPattern(ctx, "user-1", "aaa key", "AAA", "Transport")
	require.NoError(t, err)
	_, err = store.UpsertPattern(ctx, "user-1", "bbb key", "BBB", "Transport")
	require.NoError(t, err)

	patterns, err := store.Patterns(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, patterns, 3)

	// Hit count descending, then key ascending.
	assert.Equal(t, "busy key", patterns[0].Key)
	assert.Equal(t, "aaa key", patterns[1].Key)
	assert.Equal(t, "bbb key", patterns[2].Key)
}

func TestGetOrCreateCategory(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first, err := store.GetOrCreateCategory(ctx, "user-1", "Groceries")
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	second, err := store.GetOrCreateCategory(ctx, "user-1", "Groceries")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := store.GetOrCreateCategory(ctx, "user-2", "Groceries")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestTransactionRollback(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	_, err = tx.UpsertPattern(ctx, "user-1", "shell", "SHELL", "Transport")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	patterns, err := store.Patterns(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestTransactionCommit(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	_, err = tx.GetOrCreateCategory(ctx, "user-1", "Transport")
	require.NoError(t, err)
	require.NoError(t, tx.BulkInsert(ctx, "user-1", []model.Transaction{
		makeTxn("txn-1", "user-1", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "SHELL", 10),
	}))
	require.NoError(t, tx.Commit())

	got, err := store.RecentTransactions(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBulkInsertDuplicateIDFailsWholeBatch(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	err := store.BulkInsert(ctx, "user-1", []model.Transaction{
		makeTxn("txn-1", "user-1", date, "FIRST", 10),
		makeTxn("txn-1", "user-1", date, "SECOND", 20),
	})
	require.Error(t, err)

	got, err := store.RecentTransactions(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
