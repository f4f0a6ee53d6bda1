// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Import errors.
	ErrUnknownBank = errors.New("unknown bank")
	ErrEmptyFile   = errors.New("empty file")
)

// FormatError indicates a statement file could not be parsed by the selected
// adapter (or, without a hint, by any adapter). It is fatal to the preview.
type FormatError struct {
	Err    error
	BankID string
	Reason string
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("unparseable statement (%s): %s", e.BankID, e.Reason)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a FormatError for the named adapter.
func NewFormatError(bankID, reason string, err error) error {
	return &FormatError{BankID: bankID, Reason: reason, Err: err}
}

// CommitError indicates a confirm batch failed and was rolled back in full.
// When a CommitError is returned, nothing was persisted.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed, batch rolled back: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// NewCommitError wraps the cause of an aborted confirm batch.
func NewCommitError(err error) error {
	return &CommitError{Err: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
