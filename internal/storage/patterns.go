package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/paperledger/bankstat/internal/model"
)

// Patterns returns all of the user's learned patterns ordered by hit count
// descending, then key ascending. The ordering is what makes categorization
// deterministic when two patterns tie on similarity.
func (s *SQLiteStorage) Patterns(ctx context.Context, userID string) ([]model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return s.patternsQ(ctx, s.db, userID)
}

func (s *SQLiteStorage) patternsTx(ctx context.Context, tx *sql.Tx, userID string) ([]model.Pattern, error) {
	return s.patternsQ(ctx, tx, userID)
}

func (s *SQLiteStorage) patternsQ(ctx context.Context, q querier, userID string) ([]model.Pattern, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, key, raw_description, category, hit_count, created_at, last_used_at
		FROM patterns
		WHERE user_id = ?
		ORDER BY hit_count DESC, key
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.Pattern

	for rows.Next() {
		p, scanErr := scanPattern(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		patterns = append(patterns, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patterns: %w", err)
	}

	return patterns, nil
}

// UpsertPattern creates the pattern or, when the normalized key already
// exists for the user, increments its hit count and refreshes the category
// and last-used timestamp.
func (s *SQLiteStorage) UpsertPattern(ctx context.Context, userID, key, rawDescription, category string) (*model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	p, err := s.upsertPatternTx(ctx, tx, userID, key, rawDescription, category)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pattern: %w", err)
	}

	return p, nil
}

func (s *SQLiteStorage) upsertPatternTx(ctx context.Context, tx *sql.Tx, userID, key, rawDescription, category string) (*model.Pattern, error) {
	now := time.Now().UTC().Format(timeFormat)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO patterns (user_id, key, raw_description, category, hit_count, created_at, last_used_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET
			hit_count = hit_count + 1,
			category = excluded.category,
			raw_description = excluded.raw_description,
			last_used_at = excluded.last_used_at
	`, userID, key, rawDescription, category, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert pattern: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		SELECT id, user_id, key, raw_description, category, hit_count, created_at, last_used_at
		FROM patterns
		WHERE user_id = ? AND key = ?
	`, userID, key)

	return scanPattern(row)
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPattern(row scanner) (*model.Pattern, error) {
	var (
		p                     model.Pattern
		createdAt, lastUsedAt string
	)

	if err := row.Scan(&p.ID, &p.UserID, &p.Key, &p.RawDescription,
		&p.Category, &p.HitCount, &createdAt, &lastUsedAt); err != nil {
		return nil, fmt.Errorf("failed to scan pattern: %w", err)
	}

	var err error
	if p.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	if p.LastUsedAt, err = time.Parse(timeFormat, lastUsedAt); err != nil {
		return nil, fmt.Errorf("failed to parse last_used_at %q: %w", lastUsedAt, err)
	}

	return &p, nil
}
