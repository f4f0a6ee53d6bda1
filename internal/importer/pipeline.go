package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/paperledger/bankstat/internal/adapter"
	"github.com/paperledger/bankstat/internal/common"
	"github.com/paperledger/bankstat/internal/dedupe"
	"github.com/paperledger/bankstat/internal/engine"
	"github.com/paperledger/bankstat/internal/match"
	"github.com/paperledger/bankstat/internal/model"
	"github.com/paperledger/bankstat/internal/ofx"
	"github.com/paperledger/bankstat/internal/pdfstmt"
	"github.com/paperledger/bankstat/internal/service"
)

const (
	// historyLimit bounds the recent-history snapshot used by the
	// history-fuzzy tier. Older entries rarely change the outcome and the
	// snapshot is loaded once per preview.
	historyLimit = 500

	// previewWorkers caps concurrent row processing during preview.
	previewWorkers = 8
)

// DefaultRegistry returns a registry with every built-in statement adapter,
// in detection tie-break order, with the generic CSV adapter as fallback.
func DefaultRegistry() *adapter.Registry {
	r := adapter.NewRegistry()
	r.Register(adapter.Tinkoff{})
	r.Register(adapter.Sber{})
	r.Register(adapter.Alfa{})
	r.Register(ofx.NewParser())
	r.Register(pdfstmt.NewParser())

	generic := adapter.Generic{}
	r.Register(generic)
	r.SetFallback(generic)

	return r
}

// Pipeline wires the adapters, the categorization engine, the duplicate
// detector, and storage into the two-phase preview/confirm flow.
type Pipeline struct {
	registry *adapter.Registry
	engine   *engine.Engine
	detector *dedupe.Detector
	storage  service.Storage
	logger   *slog.Logger
}

// NewPipeline creates a pipeline. A nil logger discards log output.
func NewPipeline(registry *adapter.Registry, eng *engine.Engine, detector *dedupe.Detector, storage service.Storage, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Pipeline{
		registry: registry,
		engine:   eng,
		detector: detector,
		storage:  storage,
		logger:   logger,
	}
}

// Preview parses a statement file and returns every row annotated with a
// category suggestion and a duplicate flag. It writes nothing; calling it any
// number of times leaves storage unchanged.
func (p *Pipeline) Preview(ctx context.Context, userID string, content []byte, hint string) (*PreviewResult, error) {
	if len(content) == 0 {
		return nil, common.ErrEmptyFile
	}

	ad, profile, err := p.registry.Select(content, hint)
	if err != nil {
		return nil, err
	}

	parsed, err := ad.Parse(ctx, content)
	if err != nil {
		return nil, common.NewFormatError(profile.BankID, "parse failed", err)
	}

	warnings := parsed.Warnings
	rows := make([]model.RawRow, 0, len(parsed.Rows))

	for _, row := range parsed.Rows {
		if verr := row.Validate(); verr != nil {
			warnings = append(warnings, adapter.ParseWarning{
				Reason: verr.Error(),
				Line:   row.Line,
			})

			continue
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, common.NewFormatError(profile.BankID, "no parseable rows", nil)
	}

	p.logger.InfoContext(ctx, "statement parsed",
		"bank", profile.BankID,
		"rows", len(rows),
		"warnings", len(warnings))

	snap, err := p.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	previews := make([]PreviewRow, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(previewWorkers)

	for i, row := range rows {
		i, row := i, row

		g.Go(func() error {
			flag, err := p.detector.Flag(gctx, userID, row)
			if err != nil {
				return fmt.Errorf("duplicate check line %d: %w", row.Line, err)
			}

			previews[i] = PreviewRow{
				Row:            row,
				Categorization: p.engine.Categorize(row, snap),
				Duplicate:      flag,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &PreviewResult{
		DetectedBank: profile,
		Rows:         previews,
		Warnings:     warnings,
		Summary:      summarize(previews),
	}, nil
}

// Confirm commits the reviewed rows in a single database transaction. Rows
// with Include=false are skipped, as are rows still flagged as duplicates
// unless AllowDuplicates is set. Any failure rolls back the whole batch.
func (p *Pipeline) Confirm(ctx context.Context, userID string, req ConfirmRequest) (*ImportResult, error) {
	source := req.Source
	if source == "" {
		source = model.SourceImportCSV
	}

	accepted := make([]ConfirmRow, 0, len(req.Rows))

	for _, row := range req.Rows {
		if !row.Include {
			continue
		}

		if row.IsDuplicate && !req.AllowDuplicates {
			continue
		}

		accepted = append(accepted, row)
	}

	if len(accepted) == 0 {
		return &ImportResult{}, nil
	}

	tx, err := p.storage.BeginTx(ctx)
	if err != nil {
		return nil, common.NewCommitError(err)
	}

	result, err := p.commit(ctx, tx, userID, source, accepted)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			p.logger.ErrorContext(ctx, "rollback failed", "error", rbErr)
		}

		return nil, common.NewCommitError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewCommitError(err)
	}

	p.logger.InfoContext(ctx, "import confirmed",
		"imported", result.ImportedCount,
		"patterns_learned", result.PatternsLearned)

	return result, nil
}

func (p *Pipeline) commit(ctx context.Context, tx service.Transaction, userID, source string, rows []ConfirmRow) (*ImportResult, error) {
	now := time.Now().UTC()
	txns := make([]model.Transaction, 0, len(rows))

	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = row.SuggestedCategory
		}

		if category == "" {
			category = model.FallbackCategory
		}

		if _, err := tx.GetOrCreateCategory(ctx, userID, category); err != nil {
			return nil, fmt.Errorf("resolving category %q: %w", category, err)
		}

		txns = append(txns, model.Transaction{
			ID:             uuid.New().String(),
			UserID:         userID,
			Date:           row.Row.OccurredAt,
			CreatedAt:      now,
			RawDescription: row.Row.RawDescription,
			Category:       category,
			Source:         source,
			Direction:      row.Row.Direction,
			Amount:         row.Row.Amount,
		})
	}

	if err := tx.BulkInsert(ctx, userID, txns); err != nil {
		return nil, fmt.Errorf("inserting %d transactions: %w", len(txns), err)
	}

	learned := 0

	for _, row := range rows {
		if !shouldLearn(row) {
			continue
		}

		key := match.Normalize(row.Row.RawDescription)
		if key == "" {
			continue
		}

		category := row.Category
		if category == "" {
			category = row.SuggestedCategory
		}

		if _, err := tx.UpsertPattern(ctx, userID, key, row.Row.RawDescription, category); err != nil {
			return nil, fmt.Errorf("learning pattern %q: %w", key, err)
		}

		learned++
	}

	return &ImportResult{
		ImportedCount:   len(txns),
		PatternsLearned: learned,
	}, nil
}

// shouldLearn reports whether confirming this row should create or reinforce
// a user pattern: either the user corrected the suggestion, or the engine had
// nothing better than history or the fallback.
func shouldLearn(row ConfirmRow) bool {
	if row.Category != "" && row.Category != row.SuggestedCategory {
		return true
	}

	return row.Source == model.SourceNone || row.Source == model.SourceHistoryFuzzy
}

func (p *Pipeline) loadSnapshot(ctx context.Context, userID string) (engine.Snapshot, error) {
	patterns, err := p.storage.Patterns(ctx, userID)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("loading patterns: %w", err)
	}

	history, err := p.storage.RecentTransactions(ctx, userID, historyLimit)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("loading history: %w", err)
	}

	return engine.Snapshot{Patterns: patterns, History: history}, nil
}

func summarize(rows []PreviewRow) Summary {
	s := Summary{Total: len(rows)}

	for _, row := range rows {
		switch row.Categorization.Tier {
		case model.TierHigh:
			s.HighConfidence++
		case model.TierMedium:
			s.MedConfidence++
		case model.TierLow:
			s.LowConfidence++
		}

		if row.Duplicate.IsDuplicate {
			s.Duplicates++
		}
	}

	return s
}
