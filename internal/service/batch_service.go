// internal/service/batch_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
	"medalbank/internal/util"
	"medalbank/pkg/db"
)

const (
	// MaxBatchSize caps one batch request.
	MaxBatchSize = 50
	// MaxBulkCount caps the bulk-deposit/bulk-withdraw expansion.
	MaxBulkCount = 20

	// lowBalanceWarning is the advisory threshold for batch validation.
	lowBalanceWarning = 100
)

// BatchOperation is one entry of an ordered batch.
type BatchOperation struct {
	Type        domain.TransactionType `json:"type"`
	Amount      int64                  `json:"amount"`
	Description string                 `json:"description"`
}

// BatchOperationResult reports one applied entry.
type BatchOperationResult struct {
	TransactionID int64                  `json:"id"`
	Type          domain.TransactionType `json:"type"`
	Amount        int64                  `json:"amount"`
	BalanceAfter  int64                  `json:"balance_after"`
}

// BatchResult summarizes a whole batch run. For a validate-only run the
// per-operation results and transaction IDs are empty.
type BatchResult struct {
	BatchID        string                 `json:"batch_id"`
	UserID         int64                  `json:"user_id"`
	ValidateOnly   bool                   `json:"validate_only"`
	ProcessedCount int                    `json:"processed_count"`
	BalanceBefore  int64                  `json:"balance_before"`
	BalanceAfter   int64                  `json:"balance_after"`
	TotalNetChange int64                  `json:"total_net_change"`
	TransactionIDs []int64                `json:"transaction_ids"`
	Operations     []BatchOperationResult `json:"transactions_summary"`
	ProcessingTime string                 `json:"processing_time"`
}

// BatchValidation is the result of a standalone net-change pre-check.
type BatchValidation struct {
	UserID           int64  `json:"user_id"`
	CurrentBalance   int64  `json:"current_balance"`
	NetChange        int64  `json:"net_change"`
	ProjectedBalance int64  `json:"projected_balance"`
	IsValid          bool   `json:"is_valid"`
	Shortage         int64  `json:"shortage,omitempty"`
	Warning          string `json:"warning,omitempty"`
}

// BatchService applies an ordered list of operations to one user's balance
// as a single all-or-nothing unit.
type BatchService interface {
	ApplyBatch(ctx context.Context, userID int64, operations []BatchOperation, validateOnly bool) (*BatchResult, error)
	// BulkApply expands count identical operations into a batch.
	BulkApply(ctx context.Context, userID int64, opType domain.TransactionType, amount int64, count int, description string) (*BatchResult, error)
	// Validate projects a net change against the current balance without
	// touching the store.
	Validate(ctx context.Context, userID int64, netChange int64) (*BatchValidation, error)
}

type batchService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	balances   repository.BalanceRepository
	entries    repository.TransactionRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	now        func() time.Time
}

// NewBatchService creates a new instance of BatchService.
func NewBatchService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	balances repository.BalanceRepository,
	entries repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) BatchService {
	return &batchService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		balances:   balances,
		entries:    entries,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		now:        time.Now,
	}
}

// validateOperations checks every entry and reports all invalid indexes, not
// just the first one.
func validateOperations(operations []BatchOperation) (int64, error) {
	var problems []string
	var net int64
	for i, op := range operations {
		if !op.Type.Valid() {
			problems = append(problems, fmt.Sprintf("operation %d: invalid type %q", i+1, op.Type))
		}
		if op.Amount <= 0 {
			problems = append(problems, fmt.Sprintf("operation %d: invalid amount %d", i+1, op.Amount))
			continue
		}
		if op.Type == domain.TransactionTypeDeposit {
			net += op.Amount
		} else if op.Type == domain.TransactionTypeWithdraw {
			net -= op.Amount
		}
	}
	if len(problems) > 0 {
		return 0, &util.BatchValidationError{Problems: problems}
	}
	return net, nil
}

func (s *batchService) ApplyBatch(ctx context.Context, userID int64, operations []BatchOperation, validateOnly bool) (*BatchResult, error) {
	started := s.now()

	if len(operations) == 0 {
		return nil, fmt.Errorf("batch must contain at least one operation: %w", util.ErrInvalidInput)
	}
	if len(operations) > MaxBatchSize {
		return nil, fmt.Errorf("batch exceeds the maximum of %d operations: %w", MaxBatchSize, util.ErrInvalidInput)
	}

	net, err := validateOperations(operations)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		BatchID:        uuid.NewString(),
		UserID:         userID,
		ValidateOnly:   validateOnly,
		TotalNetChange: net,
		TransactionIDs: []int64{},
		Operations:     []BatchOperationResult{},
	}

	if validateOnly {
		current, err := s.currentBalance(ctx, s.dbExecutor, userID)
		if err != nil {
			return nil, err
		}
		if current+net < 0 {
			return nil, &util.InsufficientBalanceError{Current: current, Requested: -net}
		}
		result.BalanceBefore = current
		result.BalanceAfter = current + net
		result.ProcessingTime = s.now().Sub(started).String()
		return result, nil
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("apply batch: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("apply batch: transaction controller does not implement DBExecutor")
	}

	exists, err := s.userRepo.Exists(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("apply batch: failed to check user %d: %w", userID, err)
	}
	if !exists {
		return nil, util.ErrUserNotFound
	}

	balance, err := s.balances.GetForScopeLocked(ctx, txExecutor, userID, nil)
	if err != nil {
		if !errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("apply batch: failed to lock balance for user %d: %w", userID, err)
		}
		balance = domain.NewBalance(userID, nil)
	}

	before := balance.Amount
	if before+net < 0 {
		return nil, &util.InsufficientBalanceError{Current: before, Requested: -net}
	}

	// Apply in list order so the running balances on the entries reflect
	// the caller's sequence, then write the final balance once.
	running := before
	for i, op := range operations {
		opBefore := running
		if op.Type == domain.TransactionTypeDeposit {
			running += op.Amount
		} else {
			running -= op.Amount
		}

		description := op.Description
		if description == "" {
			description = fmt.Sprintf("batch operation %d/%d", i+1, len(operations))
		}

		entry := domain.NewTransaction(userID, nil, op.Type, op.Amount, opBefore, running, description)
		if err := s.entries.Create(ctx, txExecutor, entry); err != nil {
			return nil, fmt.Errorf("apply batch: failed to append entry %d of %d: %w", i+1, len(operations), err)
		}

		result.TransactionIDs = append(result.TransactionIDs, entry.ID)
		result.Operations = append(result.Operations, BatchOperationResult{
			TransactionID: entry.ID,
			Type:          op.Type,
			Amount:        op.Amount,
			BalanceAfter:  running,
		})
	}

	balance.Amount = running
	balance.UpdatedAt = time.Now().UTC()
	if err := s.balances.Upsert(ctx, txExecutor, balance); err != nil {
		return nil, fmt.Errorf("apply batch: failed to write final balance for user %d: %w", userID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("apply batch: failed to commit: %w", err)
	}

	result.ProcessedCount = len(operations)
	result.BalanceBefore = before
	result.BalanceAfter = running
	result.ProcessingTime = s.now().Sub(started).String()
	return result, nil
}

func (s *batchService) BulkApply(ctx context.Context, userID int64, opType domain.TransactionType, amount int64, count int, description string) (*BatchResult, error) {
	if !opType.Valid() {
		return nil, fmt.Errorf("invalid bulk operation type %q: %w", opType, util.ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("bulk amount must be positive: %w", util.ErrInvalidInput)
	}
	if count <= 0 || count > MaxBulkCount {
		return nil, fmt.Errorf("bulk count must be between 1 and %d: %w", MaxBulkCount, util.ErrInvalidInput)
	}

	operations := make([]BatchOperation, count)
	for i := range operations {
		opDescription := description
		if opDescription == "" {
			opDescription = fmt.Sprintf("bulk %s %d/%d", opType, i+1, count)
		}
		operations[i] = BatchOperation{Type: opType, Amount: amount, Description: opDescription}
	}

	return s.ApplyBatch(ctx, userID, operations, false)
}

func (s *batchService) Validate(ctx context.Context, userID int64, netChange int64) (*BatchValidation, error) {
	current, err := s.currentBalance(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, err
	}

	projected := current + netChange
	validation := &BatchValidation{
		UserID:           userID,
		CurrentBalance:   current,
		NetChange:        netChange,
		ProjectedBalance: projected,
		IsValid:          projected >= 0,
	}
	if projected < 0 {
		validation.Shortage = -projected
		validation.Warning = "insufficient balance for this net change"
	} else if projected < lowBalanceWarning {
		validation.Warning = fmt.Sprintf("resulting balance drops below %d medals", lowBalanceWarning)
	}
	return validation, nil
}

// currentBalance reads the user's default-scope balance, treating a missing
// row as zero. Unknown users map to ErrUserNotFound.
func (s *batchService) currentBalance(ctx context.Context, q repository.DBExecutor, userID int64) (int64, error) {
	exists, err := s.userRepo.Exists(ctx, q, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to check user %d: %w", userID, err)
	}
	if !exists {
		return 0, util.ErrUserNotFound
	}

	balance, err := s.balances.GetForScope(ctx, q, userID, nil)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read balance for user %d: %w", userID, err)
	}
	return balance.Amount, nil
}
