package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperledger/bankstat/internal/model"
)

// BulkInsert saves the batch atomically in its own transaction.
func (s *SQLiteStorage) BulkInsert(ctx context.Context, userID string, txns []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateTransactions(txns); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.bulkInsertTx(ctx, tx, userID, txns); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) bulkInsertTx(ctx context.Context, tx *sql.Tx, userID string, txns []model.Transaction) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, user_id, date, raw_description, category,
			source, direction, amount, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range txns {
		createdAt := txn.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		_, err = stmt.ExecContext(ctx,
			txn.ID,
			userID,
			txn.Date.UTC().Format(timeFormat),
			txn.RawDescription,
			txn.Category,
			txn.Source,
			string(txn.Direction),
			txn.Amount.String(),
			createdAt.UTC().Format(timeFormat),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return nil
}

// TransactionsInWindow returns the user's ledger entries with Date in
// [from, to], newest first.
func (s *SQLiteStorage) TransactionsInWindow(ctx context.Context, userID string, from, to time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %v after %v", ErrInvalidDateRange, from, to)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, raw_description, category, source, direction, amount, created_at
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date DESC, id
	`, userID, from.UTC().Format(timeFormat), to.UTC().Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// RecentTransactions returns up to limit of the user's most recently recorded
// entries, newest first.
func (s *SQLiteStorage) RecentTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, raw_description, category, source, direction, amount, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var txns []model.Transaction

	for rows.Next() {
		var (
			txn                     model.Transaction
			date, direction, amount string
			createdAt               string
		)

		if err := rows.Scan(&txn.ID, &txn.UserID, &date, &txn.RawDescription,
			&txn.Category, &txn.Source, &direction, &amount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		parsed, err := time.Parse(timeFormat, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", date, err)
		}
		txn.Date = parsed

		if txn.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
		}

		txn.Direction = model.Direction(direction)

		if txn.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}

		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}
