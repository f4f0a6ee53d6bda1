package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperledger/bankstat/internal/common"
	"github.com/paperledger/bankstat/internal/dedupe"
	"github.com/paperledger/bankstat/internal/engine"
	"github.com/paperledger/bankstat/internal/mcc"
	"github.com/paperledger/bankstat/internal/merchant"
	"github.com/paperledger/bankstat/internal/model"
	"github.com/paperledger/bankstat/internal/service"
)

// memStore is an in-memory service.Storage with transactional staging, so
// tests can verify that a failed confirm leaves nothing behind.
type memStore struct {
	txns       []model.Transaction
	patterns   map[string]model.Pattern  // userID+"/"+key
	categories map[string]model.Category // userID+"/"+name

	// failInsertOn makes BulkInsert fail when a staged transaction carries
	// this description.
	failInsertOn string
}

func newMemStore() *memStore {
	return &memStore{
		patterns:   make(map[string]model.Pattern),
		categories: make(map[string]model.Category),
	}
}

func (m *memStore) TransactionsInWindow(_ context.Context, userID string, from, to time.Time) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range m.txns {
		if t.UserID != userID || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) RecentTransactions(_ context.Context, userID string, limit int) ([]model.Transaction, error) {
	var out []model.Transaction
	for i := len(m.txns) - 1; i >= 0 && len(out) < limit; i-- {
		if m.txns[i].UserID == userID {
			out = append(out, m.txns[i])
		}
	}
	return out, nil
}

func (m *memStore) Patterns(_ context.Context, userID string) ([]model.Pattern, error) {
	var out []model.Pattern
	for _, p := range m.patterns {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) UpsertPattern(_ context.Context, userID, key, rawDescription, category string) (*model.Pattern, error) {
	p := m.upsert(userID, key, rawDescription, category)
	return &p, nil
}

func (m *memStore) upsert(userID, key, rawDescription, category string) model.Pattern {
	id := userID + "/" + key
	p, ok := m.patterns[id]
	if !ok {
		p = model.Pattern{UserID: userID, Key: key}
	}
	p.RawDescription = rawDescription
	p.Category = category
	p.HitCount++
	m.patterns[id] = p
	return p
}

func (m *memStore) GetOrCreateCategory(_ context.Context, userID, name string) (*model.Category, error) {
	id := userID + "/" + name
	c, ok := m.categories[id]
	if !ok {
		c = model.Category{UserID: userID, Name: name, IsActive: true, ID: int64(len(m.categories) + 1)}
		m.categories[id] = c
	}
	return &c, nil
}

func (m *memStore) BulkInsert(_ context.Context, userID string, txns []model.Transaction) error {
	for _, t := range txns {
		if m.failInsertOn != "" && t.RawDescription == m.failInsertOn {
			return fmt.Errorf("simulated insert failure on %q", t.RawDescription)
		}
	}
	m.txns = append(m.txns, txns...)
	return nil
}

func (m *memStore) Migrate(context.Context) error { return nil }
func (m *memStore) Close() error                  { return nil }

func (m *memStore) BeginTx(context.Context) (service.Transaction, error) {
	return &memTx{store: m, staged: newMemStore()}, nil
}

// memTx stages writes and applies them only on Commit.
type memTx struct {
	store  *memStore
	staged *memStore
}

func (t *memTx) Commit() error {
	t.store.txns = append(t.store.txns, t.staged.txns...)
	for _, p := range t.staged.patterns {
		t.store.upsert(p.UserID, p.Key, p.RawDescription, p.Category)
	}
	for _, c := range t.staged.categories {
		_, _ = t.store.GetOrCreateCategory(context.Background(), c.UserID, c.Name)
	}
	return nil
}

func (t *memTx) Rollback() error { return nil }

func (t *memTx) Patterns(ctx context.Context, userID string) ([]model.Pattern, error) {
	return t.staged.Patterns(ctx, userID)
}

func (t *memTx) UpsertPattern(ctx context.Context, userID, key, rawDescription, category string) (*model.Pattern, error) {
	return t.staged.UpsertPattern(ctx, userID, key, rawDescription, category)
}

func (t *memTx) GetOrCreateCategory(ctx context.Context, userID, name string) (*model.Category, error) {
	return t.staged.GetOrCreateCategory(ctx, userID, name)
}

func (t *memTx) BulkInsert(ctx context.Context, userID string, txns []model.Transaction) error {
	for _, txn := range txns {
		if t.store.failInsertOn != "" && txn.RawDescription == t.store.failInsertOn {
			return fmt.Errorf("simulated insert failure on %q", txn.RawDescription)
		}
	}
	return t.staged.BulkInsert(ctx, userID, txns)
}

func newTestPipeline(store *memStore) *Pipeline {
	eng := engine.New(mcc.Default(), merchant.Default(), nil, engine.DefaultConfig())
	detector := dedupe.NewDetector(store, dedupe.Options{})
	return NewPipeline(DefaultRegistry(), eng, detector, store, nil)
}

const statementCSV = `Date,Description,Amount
2024-03-15,SHELL 4521 GAS,-45.50
2024-03-16,PYATYOROCHKA 7412,-500.00
2024-03-17,UNKNOWN MERCHANT XYZZY,-13.37
`

func TestPreviewIsReadOnly(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(store)

	var first *PreviewResult
	for i := 0; i < 3; i++ {
		result, err := p.Preview(context.Background(), "user-1", []byte(statementCSV), "generic")
		require.NoError(t, err)
		if first == nil {
			first = result
		} else {
			assert.Equal(t, first, result, "preview %d differs", i)
		}
	}

	assert.Empty(t, store.txns)
	assert.Empty(t, store.patterns)
	assert.Empty(t, store.categories)
}

func TestPreviewAnnotatesAndSummarizes(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(store)

	result, err := p.Preview(context.Background(), "user-1", []byte(statementCSV), "generic")
	require.NoError(t, err)

	require.Len(t, result.Rows, 3)
	assert.Equal(t, "generic", result.DetectedBank.BankID)

	// Rows keep source order.
	assert.Equal(t, "SHELL 4521 GAS", result.Rows[0].Row.RawDescription)
	assert.Equal(t, "PYATYOROCHKA 7412", result.Rows[1].Row.RawDescription)

	groceries := result.Rows[1].Categorization
	assert.Equal(t, "Groceries", groceries.Category)
	assert.Equal(t, model.SourceMerchantRegex, groceries.Source)

	fallback := result.Rows[2].Categorization
	assert.Equal(t, model.FallbackCategory, fallback.Category)
	assert.Equal(t, model.SourceNone, fallback.Source)

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, result.Summary.Total,
		result.Summary.HighConfidence+result.Summary.MedConfidence+result.Summary.LowConfidence)
}

func TestPreviewFlagsDuplicates(t *testing.T) {
	store := newMemStore()
	store.txns = []model.Transaction{{
		ID:             "existing-1",
		UserID:         "user-1",
		Date:           time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC),
		RawDescription: "SHELL 4521 GAS",
		Category:       "Transport",
		Direction:      model.DirectionExpense,
		Amount:         decimal.NewFromFloat(45.50),
	}}
	p := newTestPipeline(store)

	result, err := p.Preview(context.Background(), "user-1", []byte(statementCSV), "generic")
	require.NoError(t, err)

	assert.True(t, result.Rows[0].Duplicate.IsDuplicate)
	assert.Equal(t, "existing-1", result.Rows[0].Duplicate.MatchID)
	assert.False(t, result.Rows[1].Duplicate.IsDuplicate)
	assert.Equal(t, 1, result.Summary.Duplicates)
}

func TestPreviewEmptyFile(t *testing.T) {
	p := newTestPipeline(newMemStore())

	_, err := p.Preview(context.Background(), "user-1", nil, "")
	assert.ErrorIs(t, err, common.ErrEmptyFile)
}

func TestPreviewNoParseableRows(t *testing.T) {
	p := newTestPipeline(newMemStore())

	content := []byte("Date,Description,Amount\nnot-a-date,SHELL 4521,-45.50\n")
	_, err := p.Preview(context.Background(), "user-1", content, "generic")
	require.Error(t, err)

	var formatErr *common.FormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestPreviewUnknownHint(t *testing.T) {
	p := newTestPipeline(newMemStore())

	_, err := p.Preview(context.Background(), "user-1", []byte(statementCSV), "monzo")
	assert.ErrorIs(t, err, common.ErrUnknownBank)
}

func confirmRowsFromPreview(result *PreviewResult) []ConfirmRow {
	rows := make([]ConfirmRow, 0, len(result.Rows))
	for _, r := range result.Rows {
		rows = append(rows, ConfirmRow{
			Row:               r.Row,
			Category:          r.Categorization.Category,
			SuggestedCategory: r.Categorization.Category,
			Source:            r.Categorization.Source,
			Include:           true,
			IsDuplicate:       r.Duplicate.IsDuplicate,
		})
	}
	return rows
}

func TestConfirmCommitsAcceptedRows(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(store)

	preview, err := p.Preview(context.Background(), "user-1", []byte(statementCSV), "generic")
	require.NoError(t, err)

	result, err := p.Confirm(context.Background(), "user-1", ConfirmRequest{
		Rows: confirmRowsFromPreview(preview),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ImportedCount)

	require.Len(t, store.txns, 3)
	assert.Equal(t, "user-1", store.txns[0].UserID)
	assert.NotEmpty(t, store.txns[0].ID)
	assert.Equal(t, model.SourceImportCSV, store.txns[0].Source)

	// Every referenced category exists afterwards.
	for _, txn := range store.txns {
		_, ok := store.categories["user-1/"+txn.Category]
		assert.True(t, ok, "category %q missing", txn.Category)
	}
}

func TestConfirmSkipsExcludedAndDuplicateRows(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(store)

	preview, err := p.Preview(context.Background(), "user-1", []byte(statementCSV), "generic")
	require.NoError(t, err)

	rows := confirmRowsFromPreview(preview)
	rows[0].Include = false
	rows[1].IsDuplicate = true

	result, err := p.Confirm(context.Background(), "user-1", ConfirmRequest{Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	require.Len(t, store.txns, 1)
	assert.Equal(t, "UNKNOWN MERCHANT XYZZY", store.txns[0].RawDescription)
}

func TestConfirmAllowDuplicates(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(store)

	preview, err := p.Preview(context.Background(), "user-1", []byte(statementCSV), "generic")
	require.NoError(t, err)

	rows := confirmRowsFromPreview(preview)
	for i := range rows {
		rows[i].IsDuplicate = true
	}

	result, err := p.Confirm(context.Background(), "user-1", ConfirmRequest{
		Rows:            rows,
		AllowDuplicates: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ImportedCount)
}

func TestConfirmRollsBackOnInsertFailure(t *testing.T) {
	store := newMemStore()
	store.failInsertOn = "UNKNOWN MERCHANT XYZZY" // last row of the batch
	p := newTestPipeline(store)

	preview, err := p.Preview(context.Background(), "user-1", []byte(statementCSV), "generic")
	require.NoError(t, err)

	_, err = p.Confirm(context.Background(), "user-1", ConfirmRequest{
		Rows: confirmRowsFromPreview(preview),
	})
	require.Error(t, err)

	var commitErr *common.CommitError
	assert.True(t, errors.As(err, &commitErr))

	// Nothing from the batch may survive, including earlier rows and the
	// categories resolved before the failure.
	assert.Empty(t, store.txns)
	assert.Empty(t, store.categories)
	assert.Empty(t, store.patterns)
}

func TestConfirmLearnsPatterns(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(store)

	preview, err := p.Preview(context.Background(), "user-1", []byte(statementCSV), "generic")
	require.NoError(t, err)

	rows := confirmRowsFromPreview(preview)
	// User corrects the merchant-regex suggestion: must be learned.
	rows[1].Category = "Business"
	// Fallback row confirmed as-is: learned because the engine had nothing.
	// Row 0 was matched by regex and accepted unchanged: not learned.

	result, err := p.Confirm(context.Background(), "user-1", ConfirmRequest{Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, 2, result.PatternsLearned)

	learned, ok := store.patterns["user-1/pyatyorochka 7412"]
	require.True(t, ok)
	assert.Equal(t, "Business", learned.Category)

	_, ok = store.patterns["user-1/unknown merchant xyzzy"]
	assert.True(t, ok)

	_, ok = store.patterns["user-1/shell 4521 gas"]
	assert.False(t, ok)
}

func TestConfirmEmptyRequest(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(store)

	result, err := p.Confirm(context.Background(), "user-1", ConfirmRequest{})
	require.NoError(t, err)
	assert.Zero(t, result.ImportedCount)
	assert.Zero(t, result.PatternsLearned)
}
