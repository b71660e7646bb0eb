// internal/repository/balance_repo.go
package repository

import (
	"context"
	"time"

	"medalbank/internal/domain"
)

// BalanceRepository defines the interface for balance row operations. A nil
// storeID addresses the default, store-less scope.
type BalanceRepository interface {
	// GetForScope retrieves the balance row for one (user, store) scope.
	// Returns util.ErrNotFound when no row exists for that scope.
	GetForScope(ctx context.Context, q DBExecutor, userID int64, storeID *int64) (*domain.Balance, error)
	// GetForScopeLocked is GetForScope with a row-level lock (FOR UPDATE);
	// it must be called inside a transaction.
	GetForScopeLocked(ctx context.Context, q DBExecutor, userID int64, storeID *int64) (*domain.Balance, error)
	// SumForUser returns the user's total across all scopes and the most
	// recent update time. Zero rows yield (0, nil, nil).
	SumForUser(ctx context.Context, q DBExecutor, userID int64) (int64, *time.Time, error)
	// Upsert writes the balance row for its scope, creating it when absent.
	Upsert(ctx context.Context, q DBExecutor, balance *domain.Balance) error
	// CreateZeroBalances fans out a zero-amount row for every provisioned
	// user into the given store, skipping users that already have one.
	// Returns the number of rows created.
	CreateZeroBalances(ctx context.Context, q DBExecutor, storeID int64) (int64, error)
	// DeleteByStore removes all balance rows scoped to a store and returns
	// how many were deleted.
	DeleteByStore(ctx context.Context, q DBExecutor, storeID int64) (int64, error)
}
