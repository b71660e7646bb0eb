// internal/repository/store_repo.go
package repository

import (
	"context"

	"medalbank/internal/domain"
)

// StoreRelatedData counts the ledger rows hanging off a store, used by the
// delete guard.
type StoreRelatedData struct {
	BalanceCount     int64 `db:"balance_count"`
	TransactionCount int64 `db:"transaction_count"`
	TotalBalance     int64 `db:"total_balance"`
}

// StoreStatsRow aggregates a single store's ledger activity.
type StoreStatsRow struct {
	UserCount        int64 `db:"user_count"`
	TotalBalance     int64 `db:"total_balance"`
	TransactionCount int64 `db:"transaction_count"`
	TotalDeposits    int64 `db:"total_deposits"`
	TotalWithdraws   int64 `db:"total_withdraws"`
}

// StoreRepository defines the interface for store CRUD.
type StoreRepository interface {
	// List returns all stores with balance aggregates, oldest first.
	List(ctx context.Context, q DBExecutor) ([]domain.Store, error)
	// GetByID retrieves one store with balance aggregates.
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.Store, error)
	// NameTaken reports whether another store (id != excludeID) already
	// uses the given name. Pass excludeID 0 when creating.
	NameTaken(ctx context.Context, q DBExecutor, name string, excludeID int64) (bool, error)
	// Create inserts a store and fills in its assigned ID.
	Create(ctx context.Context, q DBExecutor, store *domain.Store) error
	// Update rewrites name, description and color.
	Update(ctx context.Context, q DBExecutor, store *domain.Store) error
	// Delete removes the store row itself; dependent rows must already be
	// gone.
	Delete(ctx context.Context, q DBExecutor, id int64) error
	// RelatedData counts dependent balance and transaction rows.
	RelatedData(ctx context.Context, q DBExecutor, id int64) (*StoreRelatedData, error)
	// Stats aggregates the store's ledger activity.
	Stats(ctx context.Context, q DBExecutor, id int64) (*StoreStatsRow, error)
}
