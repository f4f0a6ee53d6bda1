package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/paperledger/bankstat/internal/model"
)

// GetOrCreateCategory resolves a category name to the user's category record,
// creating it if needed. Names are matched exactly; callers normalize casing
// upstream if they want case folding.
func (s *SQLiteStorage) GetOrCreateCategory(ctx context.Context, userID, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	category, err := s.getOrCreateCategoryTx(ctx, tx, userID, name)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category: %w", err)
	}

	return category, nil
}

func (s *SQLiteStorage) getOrCreateCategoryTx(ctx context.Context, tx *sql.Tx, userID, name string) (*model.Category, error) {
	category, err := scanCategory(tx.QueryRowContext(ctx, `
		SELECT id, user_id, name, is_active, created_at
		FROM categories
		WHERE user_id = ? AND name = ?
	`, userID, name))
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now().UTC().Format(timeFormat)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, is_active, created_at)
		VALUES (?, ?, 1, ?)
	`, userID, name, now); err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", name, err)
	}

	return scanCategory(tx.QueryRowContext(ctx, `
		SELECT id, user_id, name, is_active, created_at
		FROM categories
		WHERE user_id = ? AND name = ?
	`, userID, name))
}

// Categories returns the user's active categories ordered by name.
func (s *SQLiteStorage) Categories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, is_active, created_at
		FROM categories
		WHERE user_id = ? AND is_active = 1
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category

	for rows.Next() {
		c, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		categories = append(categories, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

func scanCategory(row scanner) (*model.Category, error) {
	var (
		c         model.Category
		createdAt string
	)

	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.IsActive, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}

	var err error
	if c.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}

	return &c, nil
}
