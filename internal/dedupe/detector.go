// Package dedupe flags statement rows that look like re-imports of ledger
// entries the user already has.
package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperledger/bankstat/internal/match"
	"github.com/paperledger/bankstat/internal/model"
	"github.com/paperledger/bankstat/internal/service"
)

// Defaults. The window and similarity threshold are tunable through Options;
// treat them as starting points, not load-bearing constants.
const (
	DefaultWindow              = 24 * time.Hour
	DefaultSimilarityThreshold = 0.5
)

// DefaultEpsilon absorbs rounding differences between exports: amounts within
// a cent of each other compare equal.
var DefaultEpsilon = decimal.NewFromFloat(0.009)

// Options tunes the detector.
type Options struct {
	Window              time.Duration
	Epsilon             decimal.Decimal
	SimilarityThreshold float64
}

// Detector decides whether a RawRow is a likely re-import. It only
// annotates; it never blocks anything.
type Detector struct {
	history   service.HistoryReader
	window    time.Duration
	epsilon   decimal.Decimal
	threshold float64
}

// NewDetector creates a detector over the given history. Zero option fields
// fall back to defaults.
func NewDetector(history service.HistoryReader, opts Options) *Detector {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Epsilon.IsZero() {
		opts.Epsilon = DefaultEpsilon
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = DefaultSimilarityThreshold
	}
	return &Detector{
		history:   history,
		window:    opts.Window,
		epsilon:   opts.Epsilon,
		threshold: opts.SimilarityThreshold,
	}
}

// Flag checks one row against the ledger window around its date.
//
// Zero candidates: not a duplicate. One candidate: duplicate. Several
// candidates: the best description match decides, and an ambiguous best
// match means "import it" — a false negative costs a duplicate row the user
// can delete, a false positive silently drops a legitimate transaction.
func (d *Detector) Flag(ctx context.Context, userID string, row model.RawRow) (model.DuplicateFlag, error) {
	from := row.OccurredAt.Add(-d.window)
	to := row.OccurredAt.Add(d.window)

	entries, err := d.history.TransactionsInWindow(ctx, userID, from, to)
	if err != nil {
		return model.DuplicateFlag{}, fmt.Errorf("querying duplicate window: %w", err)
	}

	var candidates []model.Transaction
	for _, e := range entries {
		if e.Direction != row.Direction {
			continue
		}
		if e.Amount.Sub(row.Amount).Abs().GreaterThan(d.epsilon) {
			continue
		}
		candidates = append(candidates, e)
	}

	switch len(candidates) {
	case 0:
		return model.DuplicateFlag{}, nil
	case 1:
		return model.DuplicateFlag{
			IsDuplicate:    true,
			MatchID:        candidates[0].ID,
			CandidateCount: 1,
			Similarity:     match.TokenOverlap(row.RawDescription, candidates[0].RawDescription),
		}, nil
	}

	best := candidates[0]
	bestSim := match.TokenOverlap(row.RawDescription, best.RawDescription)
	for _, c := range candidates[1:] {
		if sim := match.TokenOverlap(row.RawDescription, c.RawDescription); sim > bestSim {
			best, bestSim = c, sim
		}
	}

	if bestSim < d.threshold {
		return model.DuplicateFlag{CandidateCount: len(candidates), Similarity: bestSim}, nil
	}

	return model.DuplicateFlag{
		IsDuplicate:    true,
		MatchID:        best.ID,
		CandidateCount: len(candidates),
		Similarity:     bestSim,
	}, nil
}
