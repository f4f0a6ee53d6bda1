package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperledger/bankstat/internal/mcc"
	"github.com/paperledger/bankstat/internal/merchant"
	"github.com/paperledger/bankstat/internal/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(mcc.Default(), merchant.Default(), nil, DefaultConfig())
}

func expenseRow(description, merchantCode string) model.RawRow {
	return model.RawRow{
		OccurredAt:     time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		RawDescription: description,
		MerchantCode:   merchantCode,
		Direction:      model.DirectionExpense,
		Amount:         decimal.NewFromFloat(45.50),
		Line:           1,
	}
}

func pattern(key, category string, hits int) model.Pattern {
	return model.Pattern{
		Key:            key,
		RawDescription: key,
		Category:       category,
		HitCount:       hits,
		CreatedAt:      time.Now(),
		LastUsedAt:     time.Now(),
	}
}

func historyTxn(description, category string) model.Transaction {
	return model.Transaction{
		ID:             "txn-" + description,
		UserID:         "user-1",
		Date:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RawDescription: description,
		Category:       category,
		Direction:      model.DirectionExpense,
		Amount:         decimal.NewFromFloat(10),
	}
}

func TestCategorizeExactPattern(t *testing.T) {
	eng := newTestEngine(t)

	snap := Snapshot{
		Patterns: []model.Pattern{pattern("shell 4521", "Transport", 3)},
	}

	result := eng.Categorize(expenseRow("SHELL  4521", ""), snap)

	assert.Equal(t, "Transport", result.Category)
	assert.Equal(t, model.SourceUserPatternExact, result.Source)
	assert.Equal(t, model.TierHigh, result.Tier)
	assert.InDelta(t, 0.99, result.Score, 0.0001)
}

func TestCategorizeFuzzyPattern(t *testing.T) {
	eng := newTestEngine(t)

	snap := Snapshot{
		Patterns: []model.Pattern{pattern("shell 4521", "Transport", 3)},
	}

	// The statement line extends the stored key; no exact hit, but the
	// fuzzy tier should claim it with high confidence.
	result := eng.Categorize(expenseRow("SHELL 4521 GAS STATION", ""), snap)

	assert.Equal(t, "Transport", result.Category)
	assert.Equal(t, model.SourceUserPatternFuzzy, result.Source)
	assert.Equal(t, model.TierHigh, result.Tier)
	assert.GreaterOrEqual(t, result.Score, 0.90)
}

func TestCategorizeFuzzyPatternMediumTier(t *testing.T) {
	cfg := DefaultConfig()
	eng := New(mcc.Default(), merchant.Default(),
		func(_, _ string) float64 { return 0.85 }, cfg)

	snap := Snapshot{
		Patterns: []model.Pattern{pattern("some key", "Transport", 1)},
	}

	result := eng.Categorize(expenseRow("zzz unmatched zzz", ""), snap)

	require.Equal(t, model.SourceUserPatternFuzzy, result.Source)
	assert.Equal(t, model.TierMedium, result.Tier)
	assert.InDelta(t, 0.85, result.Score, 0.0001)
}

func TestCategorizeMCC(t *testing.T) {
	eng := newTestEngine(t)

	result := eng.Categorize(expenseRow("UNKNOWN MERCHANT 999", "5411"), Snapshot{})

	assert.Equal(t, "Groceries", result.Category)
	assert.Equal(t, model.SourceMCC, result.Source)
	assert.Equal(t, model.TierMedium, result.Tier)
	assert.InDelta(t, 0.85, result.Score, 0.0001)
}

func TestCategorizeMerchantRegex(t *testing.T) {
	eng := newTestEngine(t)

	result := eng.Categorize(expenseRow("PYATYOROCHKA 7412 MOSCOW", ""), Snapshot{})

	assert.Equal(t, "Groceries", result.Category)
	assert.Equal(t, model.SourceMerchantRegex, result.Source)
	assert.Equal(t, model.TierMedium, result.Tier)
}

func TestCategorizeHistoryFuzzy(t *testing.T) {
	eng := newTestEngine(t)

	snap := Snapshot{
		History: []model.Transaction{historyTxn("FLOWER SHOP ROMASHKA", "Gifts")},
	}

	result := eng.Categorize(expenseRow("FLOWER SHOP ROMASHKA 2", ""), snap)

	assert.Equal(t, "Gifts", result.Category)
	assert.Equal(t, model.SourceHistoryFuzzy, result.Source)
	assert.Equal(t, model.TierMedium, result.Tier)
}

func TestCategorizeFallback(t *testing.T) {
	eng := newTestEngine(t)

	result := eng.Categorize(expenseRow("QQXXZZ 0001", ""), Snapshot{})

	assert.Equal(t, model.FallbackCategory, result.Category)
	assert.Equal(t, model.SourceNone, result.Source)
	assert.Equal(t, model.TierLow, result.Tier)
	assert.Zero(t, result.Score)
}

func TestCategorizePatternBeatsMCC(t *testing.T) {
	eng := newTestEngine(t)

	snap := Snapshot{
		Patterns: []model.Pattern{pattern("shell 4521", "Business", 1)},
	}

	// MCC 5541 would say Transport, but the user's pattern wins.
	result := eng.Categorize(expenseRow("SHELL 4521", "5541"), snap)

	assert.Equal(t, "Business", result.Category)
	assert.Equal(t, model.SourceUserPatternExact, result.Source)
}

func TestCategorizeMCCBeatsMerchantRegex(t *testing.T) {
	eng := newTestEngine(t)

	// Description matches the Pyatyorochka regex (Groceries), but the row
	// carries a restaurant MCC, which ranks above regex in the cascade.
	result := eng.Categorize(expenseRow("PYATYOROCHKA CAFE", "5812"), Snapshot{})

	assert.Equal(t, model.SourceMCC, result.Source)
	assert.Equal(t, "Restaurants", result.Category)
}

func TestCategorizeDeterministicAcrossSnapshotOrder(t *testing.T) {
	eng := New(mcc.Default(), merchant.Default(),
		func(_, _ string) float64 { return 0.95 }, DefaultConfig())

	a := pattern("aaa store", "CategoryA", 2)
	b := pattern("bbb store", "CategoryB", 2)

	row := expenseRow("unrelated description", "")

	first := eng.Categorize(row, Snapshot{Patterns: []model.Pattern{a, b}})
	second := eng.Categorize(row, Snapshot{Patterns: []model.Pattern{b, a}})

	// Equal hit counts tie on similarity too; key order must decide.
	assert.Equal(t, first, second)
	assert.Equal(t, "CategoryA", first.Category)
}

func TestCategorizeHigherHitCountWinsTies(t *testing.T) {
	eng := New(mcc.Default(), merchant.Default(),
		func(_, _ string) float64 { return 0.95 }, DefaultConfig())

	low := pattern("zzz store", "Rare", 1)
	high := pattern("aaa store", "Frequent", 10)

	result := eng.Categorize(expenseRow("whatever", ""), Snapshot{
		Patterns: []model.Pattern{low, high},
	})

	assert.Equal(t, "Frequent", result.Category)
}

func TestCategorizeEmptyDescription(t *testing.T) {
	eng := newTestEngine(t)

	snap := Snapshot{
		Patterns: []model.Pattern{pattern("shell 4521", "Transport", 1)},
	}

	result := eng.Categorize(expenseRow("***", ""), snap)

	assert.Equal(t, model.SourceNone, result.Source)
	assert.Equal(t, model.FallbackCategory, result.Category)
}
