// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common application-specific errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUserNotFound        = errors.New("user not found")
	ErrStoreNotFound       = errors.New("store not found")
	ErrDuplicateName       = errors.New("name already in use")
	ErrStoreHasData        = errors.New("store has related ledger data")
	ErrUnauthorized        = errors.New("authentication required")
	ErrTokenExpired        = errors.New("token expired")
)

// InsufficientBalanceError reports a withdrawal (or batch) that would drive a
// balance below zero, including how many medals were missing.
type InsufficientBalanceError struct {
	Current   int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d (short %d)",
		e.Current, e.Requested, e.Shortfall())
}

func (e *InsufficientBalanceError) Shortfall() int64 {
	return e.Requested - e.Current
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// BatchValidationError collects every invalid entry of a batch, so the caller
// can fix all of them in one pass.
type BatchValidationError struct {
	Problems []string
}

func (e *BatchValidationError) Error() string {
	return "batch validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *BatchValidationError) Unwrap() error { return ErrInvalidInput }

// StoreHasDataError blocks a plain store deletion while ledger rows still
// reference it, reporting what would be lost.
type StoreHasDataError struct {
	BalanceCount     int64
	TransactionCount int64
	TotalBalance     int64
}

func (e *StoreHasDataError) Error() string {
	return fmt.Sprintf("store has related ledger data: %d balances (%d medals), %d transactions",
		e.BalanceCount, e.TotalBalance, e.TransactionCount)
}

func (e *StoreHasDataError) Unwrap() error { return ErrStoreHasData }

// IsError checks if err matches the target sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
