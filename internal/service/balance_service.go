// internal/service/balance_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
	"medalbank/internal/util"
	"medalbank/pkg/db"
)

// BalanceSnapshot is the read view of a user's medal balance. UpdatedAt is
// nil when the user has no balance rows yet.
type BalanceSnapshot struct {
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	StoreID   *int64     `json:"store_id,omitempty"`
	Amount    int64      `json:"total_balance"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// ApplyTransactionInput describes one deposit or withdrawal.
type ApplyTransactionInput struct {
	UserID      int64
	StoreID     *int64
	Type        domain.TransactionType
	Amount      int64
	Description string
}

// BalanceService defines the ledger mutation/read contract for single
// operations.
type BalanceService interface {
	// GetBalance returns the balance for one (user, store) scope, or the
	// derived sum across all scopes when storeID is nil.
	GetBalance(ctx context.Context, userID int64, storeID *int64) (*BalanceSnapshot, error)
	// ApplyTransaction mutates one balance row and appends exactly one
	// transaction row, atomically.
	ApplyTransaction(ctx context.Context, input ApplyTransactionInput) (*domain.Transaction, error)
}

type balanceService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	balances   repository.BalanceRepository
	entries    repository.TransactionRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewBalanceService creates a new instance of BalanceService.
func NewBalanceService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	balances repository.BalanceRepository,
	entries repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) BalanceService {
	return &balanceService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		balances:   balances,
		entries:    entries,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

func (s *balanceService) GetBalance(ctx context.Context, userID int64, storeID *int64) (*BalanceSnapshot, error) {
	user, err := s.userRepo.GetByID(ctx, s.dbExecutor, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("get balance: failed to fetch user %d: %w", userID, err)
	}

	snapshot := &BalanceSnapshot{UserID: user.ID, Username: user.Username, StoreID: storeID}

	if storeID != nil {
		balance, err := s.balances.GetForScope(ctx, s.dbExecutor, userID, storeID)
		if err != nil {
			if errors.Is(err, util.ErrNotFound) {
				// No row for this scope yet: reads see it as zero.
				return snapshot, nil
			}
			return nil, fmt.Errorf("get balance: failed to fetch balance for user %d: %w", userID, err)
		}
		snapshot.Amount = balance.Amount
		snapshot.UpdatedAt = &balance.UpdatedAt
		return snapshot, nil
	}

	total, updatedAt, err := s.balances.SumForUser(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get balance: failed to sum balances for user %d: %w", userID, err)
	}
	snapshot.Amount = total
	snapshot.UpdatedAt = updatedAt
	return snapshot, nil
}

func (s *balanceService) ApplyTransaction(ctx context.Context, input ApplyTransactionInput) (*domain.Transaction, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("amount must be a positive number of medals: %w", util.ErrInvalidInput)
	}
	if !input.Type.Valid() {
		return nil, fmt.Errorf("type must be %q or %q: %w",
			domain.TransactionTypeDeposit, domain.TransactionTypeWithdraw, util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("apply transaction: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("apply transaction: transaction controller does not implement DBExecutor")
	}

	exists, err := s.userRepo.Exists(ctx, txExecutor, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("apply transaction: failed to check user %d: %w", input.UserID, err)
	}
	if !exists {
		return nil, util.ErrUserNotFound
	}

	// The row lock serializes concurrent mutations of the same scope; a
	// missing row means this is the scope's first mutation.
	balance, err := s.balances.GetForScopeLocked(ctx, txExecutor, input.UserID, input.StoreID)
	if err != nil {
		if !errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("apply transaction: failed to lock balance for user %d: %w", input.UserID, err)
		}
		balance = domain.NewBalance(input.UserID, input.StoreID)
	}

	before := balance.Amount
	var after int64
	switch input.Type {
	case domain.TransactionTypeDeposit:
		after = before + input.Amount
	case domain.TransactionTypeWithdraw:
		after = before - input.Amount
		if after < 0 {
			return nil, &util.InsufficientBalanceError{Current: before, Requested: input.Amount}
		}
	}

	balance.Amount = after
	balance.UpdatedAt = time.Now().UTC()
	if err := s.balances.Upsert(ctx, txExecutor, balance); err != nil {
		return nil, fmt.Errorf("apply transaction: failed to write balance for user %d: %w", input.UserID, err)
	}

	transaction := domain.NewTransaction(input.UserID, input.StoreID, input.Type, input.Amount, before, after, input.Description)
	if err := s.entries.Create(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("apply transaction: failed to append ledger entry for user %d: %w", input.UserID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("apply transaction: failed to commit: %w", err)
	}

	return transaction, nil
}
