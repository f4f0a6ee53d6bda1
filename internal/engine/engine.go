// Package engine implements the layered categorization cascade: learned user
// patterns, MCC lookup, merchant regexes, then transaction-history fuzzy
// matching, first match wins.
package engine

import (
	"sort"

	"github.com/paperledger/bankstat/internal/match"
	"github.com/paperledger/bankstat/internal/mcc"
	"github.com/paperledger/bankstat/internal/merchant"
	"github.com/paperledger/bankstat/internal/model"
)

// Confidence constants per tier. Fuzzy tiers use the measured similarity as
// the score instead.
const (
	exactPatternScore = 0.99
	mccScore          = 0.85
	merchantScore     = 0.85
)

// Config holds the cascade's fuzzy thresholds. Zero values fall back to the
// defaults; the thresholds are tunable, not load-bearing.
type Config struct {
	// PatternThreshold is the minimum similarity for a fuzzy user-pattern hit.
	PatternThreshold float64
	// PatternHighCutoff promotes a fuzzy pattern hit to the high tier.
	PatternHighCutoff float64
	// HistoryThreshold is the minimum similarity for a history hit.
	HistoryThreshold float64
	// HistoryMediumCutoff promotes a history hit from low to medium tier.
	HistoryMediumCutoff float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		PatternThreshold:    0.80,
		PatternHighCutoff:   0.90,
		HistoryThreshold:    0.80,
		HistoryMediumCutoff: 0.85,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PatternThreshold <= 0 {
		c.PatternThreshold = d.PatternThreshold
	}
	if c.PatternHighCutoff <= 0 {
		c.PatternHighCutoff = d.PatternHighCutoff
	}
	if c.HistoryThreshold <= 0 {
		c.HistoryThreshold = d.HistoryThreshold
	}
	if c.HistoryMediumCutoff <= 0 {
		c.HistoryMediumCutoff = d.HistoryMediumCutoff
	}
	return c
}

// Snapshot is the per-request view of the user's mutable state. The engine
// never reaches into storage itself: given the same snapshot and row it
// always produces the same result.
type Snapshot struct {
	// Patterns is the user's learned pattern set.
	Patterns []model.Pattern
	// History is the user's past transactions, newest first.
	History []model.Transaction
}

// Engine scores one RawRow against the cascade. Safe for concurrent use;
// all state is immutable after New.
type Engine struct {
	mcc       *mcc.Table
	merchants *merchant.Matcher
	sim       match.Similarity
	cfg       Config
	cascade   []matcher
}

type matcher func(row model.RawRow, snap *preparedSnapshot) *model.CategorizationResult

// New builds an engine. A nil sim falls back to match.Ratio.
func New(table *mcc.Table, merchants *merchant.Matcher, sim match.Similarity, cfg Config) *Engine {
	if sim == nil {
		sim = match.Ratio
	}
	e := &Engine{
		mcc:       table,
		merchants: merchants,
		sim:       sim,
		cfg:       cfg.withDefaults(),
	}
	e.cascade = []matcher{
		e.matchPatternExact,
		e.matchPatternFuzzy,
		e.matchMCC,
		e.matchMerchantRegex,
		e.matchHistoryFuzzy,
	}
	return e
}

// Categorize runs the cascade for one row. It never errors: a row no tier
// claims resolves to the "Other" fallback.
func (e *Engine) Categorize(row model.RawRow, snap Snapshot) model.CategorizationResult {
	prepared := prepare(snap)
	for _, m := range e.cascade {
		if result := m(row, prepared); result != nil {
			return *result
		}
	}
	return model.Fallback()
}

// preparedSnapshot holds the deterministically ordered view of a Snapshot.
type preparedSnapshot struct {
	patterns   []model.Pattern
	patternIdx map[string]model.Pattern
	history    []model.Transaction
}

// prepare orders patterns by hit count descending then key ascending, so a
// differently ordered snapshot from storage cannot change fuzzy tie-breaks.
func prepare(snap Snapshot) *preparedSnapshot {
	patterns := make([]model.Pattern, len(snap.Patterns))
	copy(patterns, snap.Patterns)
	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].HitCount != patterns[j].HitCount {
			return patterns[i].HitCount > patterns[j].HitCount
		}
		return patterns[i].Key < patterns[j].Key
	})

	idx := make(map[string]model.Pattern, len(patterns))
	for _, p := range patterns {
		if _, ok := idx[p.Key]; !ok {
			idx[p.Key] = p
		}
	}

	return &preparedSnapshot{patterns: patterns, patternIdx: idx, history: snap.History}
}

func (e *Engine) matchPatternExact(row model.RawRow, snap *preparedSnapshot) *model.CategorizationResult {
	key := match.Normalize(row.RawDescription)
	if key == "" {
		return nil
	}
	p, ok := snap.patternIdx[key]
	if !ok {
		return nil
	}
	return &model.CategorizationResult{
		Category: p.Category,
		Tier:     model.TierHigh,
		Source:   model.SourceUserPatternExact,
		Score:    exactPatternScore,
	}
}

func (e *Engine) matchPatternFuzzy(row model.RawRow, snap *preparedSnapshot) *model.CategorizationResult {
	var best *model.Pattern
	var bestSim float64

	for i := range snap.patterns {
		p := &snap.patterns[i]
		// Strictly greater keeps the earlier (higher hit count) pattern on
		// ties, which keeps results stable between runs.
		if sim := e.sim(row.RawDescription, p.Key); sim > bestSim {
			best, bestSim = p, sim
		}
	}

	if best == nil || bestSim < e.cfg.PatternThreshold {
		return nil
	}

	tier := model.TierMedium
	if bestSim >= e.cfg.PatternHighCutoff {
		tier = model.TierHigh
	}
	return &model.CategorizationResult{
		Category: best.Category,
		Tier:     tier,
		Source:   model.SourceUserPatternFuzzy,
		Score:    bestSim,
	}
}

func (e *Engine) matchMCC(row model.RawRow, _ *preparedSnapshot) *model.CategorizationResult {
	if row.MerchantCode == "" {
		return nil
	}
	category, ok := e.mcc.Lookup(row.MerchantCode)
	if !ok {
		return nil
	}
	return &model.CategorizationResult{
		Category: category,
		Tier:     model.TierMedium,
		Source:   model.SourceMCC,
		Score:    mccScore,
	}
}

func (e *Engine) matchMerchantRegex(row model.RawRow, _ *preparedSnapshot) *model.CategorizationResult {
	category, ok := e.merchants.Match(row.RawDescription)
	if !ok {
		return nil
	}
	return &model.CategorizationResult{
		Category: category,
		Tier:     model.TierMedium,
		Source:   model.SourceMerchantRegex,
		Score:    merchantScore,
	}
}

func (e *Engine) matchHistoryFuzzy(row model.RawRow, snap *preparedSnapshot) *model.CategorizationResult {
	var best *model.Transaction
	var bestSim float64

	for i := range snap.history {
		t := &snap.history[i]
		if t.RawDescription == "" || t.Category == "" {
			continue
		}
		// Strictly greater keeps the newest transaction on ties.
		if sim := e.sim(row.RawDescription, t.RawDescription); sim > bestSim {
			best, bestSim = t, sim
		}
	}

	if best == nil || bestSim < e.cfg.HistoryThreshold {
		return nil
	}

	tier := model.TierLow
	if bestSim >= e.cfg.HistoryMediumCutoff {
		tier = model.TierMedium
	}
	return &model.CategorizationResult{
		Category: best.Category,
		Tier:     tier,
		Source:   model.SourceHistoryFuzzy,
		Score:    bestSim,
	}
}
