// internal/service/store_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
	"medalbank/internal/util"
	"medalbank/pkg/db"
)

// RecentStoreEntries caps the transaction sample returned with store stats.
const RecentStoreEntries = 10

// CreateStoreInput carries the fields for a new store.
type CreateStoreInput struct {
	Name        string
	Description *string
	Color       string
	// InitializeBalances fans out a zero balance row for every existing
	// user at creation time.
	InitializeBalances bool
}

// UpdateStoreInput rewrites a store's descriptive fields.
type UpdateStoreInput struct {
	Name        string
	Description *string
	Color       string
}

// StoreDeletion reports what a forced store deletion removed.
type StoreDeletion struct {
	StoreID             int64 `json:"store_id"`
	DeletedBalances     int64 `json:"deleted_balances"`
	DeletedTransactions int64 `json:"deleted_transactions"`
}

// StoreStats is a store's aggregate ledger view plus a recent activity sample.
type StoreStats struct {
	Store              *domain.Store                `json:"store"`
	UserCount          int64                        `json:"user_count"`
	TotalBalance       int64                        `json:"total_balance"`
	TransactionCount   int64                        `json:"transaction_count"`
	TotalDeposits      int64                        `json:"total_deposits"`
	TotalWithdraws     int64                        `json:"total_withdraws"`
	RecentTransactions []domain.TransactionWithUser `json:"recent_transactions"`
}

// StoreService manages the store registry and its delete guard.
type StoreService interface {
	ListStores(ctx context.Context) ([]domain.Store, error)
	GetStore(ctx context.Context, id int64) (*domain.Store, error)
	CreateStore(ctx context.Context, input CreateStoreInput) (*domain.Store, error)
	UpdateStore(ctx context.Context, id int64, input UpdateStoreInput) (*domain.Store, error)
	// DeleteStore refuses while ledger rows reference the store unless
	// force is set, in which case it cascades.
	DeleteStore(ctx context.Context, id int64, force bool) (*StoreDeletion, error)
	StoreStats(ctx context.Context, id int64) (*StoreStats, error)
}

type storeService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	stores     repository.StoreRepository
	balances   repository.BalanceRepository
	entries    repository.TransactionRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewStoreService creates a new instance of StoreService.
func NewStoreService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	stores repository.StoreRepository,
	balances repository.BalanceRepository,
	entries repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) StoreService {
	return &storeService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		stores:     stores,
		balances:   balances,
		entries:    entries,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

func (s *storeService) ListStores(ctx context.Context) ([]domain.Store, error) {
	stores, err := s.stores.List(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

func (s *storeService) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	store, err := s.stores.GetByID(ctx, s.dbExecutor, id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrStoreNotFound
		}
		return nil, fmt.Errorf("get store %d: %w", id, err)
	}
	return store, nil
}

func (s *storeService) CreateStore(ctx context.Context, input CreateStoreInput) (*domain.Store, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("store name must not be empty: %w", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create store: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create store: transaction controller does not implement DBExecutor")
	}

	taken, err := s.stores.NameTaken(ctx, txExecutor, name, 0)
	if err != nil {
		return nil, fmt.Errorf("create store: failed to check name %q: %w", name, err)
	}
	if taken {
		return nil, util.ErrDuplicateName
	}

	store := domain.NewStore(name, input.Description, input.Color)
	if err := s.stores.Create(ctx, txExecutor, store); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	if input.InitializeBalances {
		if _, err := s.balances.CreateZeroBalances(ctx, txExecutor, store.ID); err != nil {
			return nil, fmt.Errorf("create store: failed to provision balances: %w", err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create store: failed to commit: %w", err)
	}

	// Re-fetch so the aggregate columns reflect any provisioned rows.
	return s.GetStore(ctx, store.ID)
}

func (s *storeService) UpdateStore(ctx context.Context, id int64, input UpdateStoreInput) (*domain.Store, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("store name must not be empty: %w", util.ErrInvalidInput)
	}

	store, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.stores.NameTaken(ctx, s.dbExecutor, name, id)
	if err != nil {
		return nil, fmt.Errorf("update store %d: failed to check name %q: %w", id, name, err)
	}
	if taken {
		return nil, util.ErrDuplicateName
	}

	store.Name = name
	store.Description = input.Description
	if input.Color != "" {
		store.Color = input.Color
	}
	store.UpdatedAt = time.Now().UTC()

	if err := s.stores.Update(ctx, s.dbExecutor, store); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrStoreNotFound
		}
		return nil, fmt.Errorf("update store %d: %w", id, err)
	}
	return s.GetStore(ctx, id)
}

func (s *storeService) DeleteStore(ctx context.Context, id int64, force bool) (*StoreDeletion, error) {
	if _, err := s.GetStore(ctx, id); err != nil {
		return nil, err
	}

	related, err := s.stores.RelatedData(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("delete store %d: failed to count related rows: %w", id, err)
	}

	hasData := related.BalanceCount > 0 || related.TransactionCount > 0
	if hasData && !force {
		return nil, &util.StoreHasDataError{
			BalanceCount:     related.BalanceCount,
			TransactionCount: related.TransactionCount,
			TotalBalance:     related.TotalBalance,
		}
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("delete store %d: failed to begin transaction: %w", id, err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("delete store %d: transaction controller does not implement DBExecutor", id)
	}

	deletion := &StoreDeletion{StoreID: id}

	// Entries first, then balances, then the store row itself.
	deletion.DeletedTransactions, err = s.entries.DeleteByStore(ctx, txExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("delete store %d: failed to delete transactions: %w", id, err)
	}
	deletion.DeletedBalances, err = s.balances.DeleteByStore(ctx, txExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("delete store %d: failed to delete balances: %w", id, err)
	}
	if err := s.stores.Delete(ctx, txExecutor, id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrStoreNotFound
		}
		return nil, fmt.Errorf("delete store %d: %w", id, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("delete store %d: failed to commit: %w", id, err)
	}
	return deletion, nil
}

func (s *storeService) StoreStats(ctx context.Context, id int64) (*StoreStats, error) {
	store, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	row, err := s.stores.Stats(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("store stats %d: %w", id, err)
	}
	recent, err := s.entries.RecentForStore(ctx, s.dbExecutor, id, RecentStoreEntries)
	if err != nil {
		return nil, fmt.Errorf("store stats %d: failed to fetch recent entries: %w", id, err)
	}

	return &StoreStats{
		Store:              store,
		UserCount:          row.UserCount,
		TotalBalance:       row.TotalBalance,
		TransactionCount:   row.TransactionCount,
		TotalDeposits:      row.TotalDeposits,
		TotalWithdraws:     row.TotalWithdraws,
		RecentTransactions: recent,
	}, nil
}
