// Package storage provides the SQLite persistence layer for bankstat.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/paperledger/bankstat/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidLimit       = errors.New("limit must be positive")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of ledger entries before insert.
func validateTransactions(transactions []model.Transaction) error {
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

func validateTransaction(txn *model.Transaction) error {
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.RawDescription) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	if txn.Direction != model.DirectionIncome && txn.Direction != model.DirectionExpense {
		return fmt.Errorf("%w: direction %q", ErrInvalidTransaction, txn.Direction)
	}
	return nil
}
