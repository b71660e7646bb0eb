// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
	"medalbank/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	args := m.Called(ctx, q, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, q repository.DBExecutor, id int64) (bool, error) {
	args := m.Called(ctx, q, id)
	return args.Bool(0), args.Error(1)
}

// MockBalanceRepository is a mock implementation of repository.BalanceRepository.
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) GetForScope(ctx context.Context, q repository.DBExecutor, userID int64, storeID *int64) (*domain.Balance, error) {
	args := m.Called(ctx, q, userID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

func (m *MockBalanceRepository) GetForScopeLocked(ctx context.Context, q repository.DBExecutor, userID int64, storeID *int64) (*domain.Balance, error) {
	args := m.Called(ctx, q, userID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

func (m *MockBalanceRepository) SumForUser(ctx context.Context, q repository.DBExecutor, userID int64) (int64, *time.Time, error) {
	args := m.Called(ctx, q, userID)
	var updatedAt *time.Time
	if args.Get(1) != nil {
		updatedAt = args.Get(1).(*time.Time)
	}
	return args.Get(0).(int64), updatedAt, args.Error(2)
}

func (m *MockBalanceRepository) Upsert(ctx context.Context, q repository.DBExecutor, balance *domain.Balance) error {
	args := m.Called(ctx, q, balance)
	return args.Error(0)
}

func (m *MockBalanceRepository) CreateZeroBalances(ctx context.Context, q repository.DBExecutor, storeID int64) (int64, error) {
	args := m.Called(ctx, q, storeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceRepository) DeleteByStore(ctx context.Context, q repository.DBExecutor, storeID int64) (int64, error) {
	args := m.Called(ctx, q, storeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) List(ctx context.Context, q repository.DBExecutor, filter repository.TransactionFilter) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, q, filter)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) FilterTotals(ctx context.Context, q repository.DBExecutor, filter repository.TransactionFilter) (*repository.FilterTotals, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.FilterTotals), args.Error(1)
}

func (m *MockTransactionRepository) StatsForUser(ctx context.Context, q repository.DBExecutor, userID int64, since *time.Time) (*repository.UserStatsRow, error) {
	args := m.Called(ctx, q, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserStatsRow), args.Error(1)
}

func (m *MockTransactionRepository) DailyBreakdown(ctx context.Context, q repository.DBExecutor, userID int64, since *time.Time) ([]repository.DailyBucket, error) {
	args := m.Called(ctx, q, userID, since)
	return args.Get(0).([]repository.DailyBucket), args.Error(1)
}

func (m *MockTransactionRepository) DailySeries(ctx context.Context, q repository.DBExecutor, userID int64, since time.Time) ([]repository.DailyBucket, error) {
	args := m.Called(ctx, q, userID, since)
	return args.Get(0).([]repository.DailyBucket), args.Error(1)
}

func (m *MockTransactionRepository) SummaryForUser(ctx context.Context, q repository.DBExecutor, userID int64) (*repository.UserSummaryRow, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserSummaryRow), args.Error(1)
}

func (m *MockTransactionRepository) RecentForStore(ctx context.Context, q repository.DBExecutor, storeID int64, limit int) ([]domain.TransactionWithUser, error) {
	args := m.Called(ctx, q, storeID, limit)
	return args.Get(0).([]domain.TransactionWithUser), args.Error(1)
}

func (m *MockTransactionRepository) DeleteByStore(ctx context.Context, q repository.DBExecutor, storeID int64) (int64, error) {
	args := m.Called(ctx, q, storeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockStoreRepository is a mock implementation of repository.StoreRepository.
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) List(ctx context.Context, q repository.DBExecutor) ([]domain.Store, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Store), args.Error(1)
}

func (m *MockStoreRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Store, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockStoreRepository) NameTaken(ctx context.Context, q repository.DBExecutor, name string, excludeID int64) (bool, error) {
	args := m.Called(ctx, q, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreRepository) Create(ctx context.Context, q repository.DBExecutor, store *domain.Store) error {
	args := m.Called(ctx, q, store)
	return args.Error(0)
}

func (m *MockStoreRepository) Update(ctx context.Context, q repository.DBExecutor, store *domain.Store) error {
	args := m.Called(ctx, q, store)
	return args.Error(0)
}

func (m *MockStoreRepository) Delete(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockStoreRepository) RelatedData(ctx context.Context, q repository.DBExecutor, id int64) (*repository.StoreRelatedData, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.StoreRelatedData), args.Error(1)
}

func (m *MockStoreRepository) Stats(ctx context.Context, q repository.DBExecutor, id int64) (*repository.StoreStatsRow, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.StoreStatsRow), args.Error(1)
}

// MockLoginHistoryRepository is a mock implementation of repository.LoginHistoryRepository.
type MockLoginHistoryRepository struct {
	mock.Mock
}

func (m *MockLoginHistoryRepository) Create(ctx context.Context, q repository.DBExecutor, record *domain.LoginRecord) error {
	args := m.Called(ctx, q, record)
	return args.Error(0)
}

func (m *MockLoginHistoryRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit int) ([]domain.LoginRecord, error) {
	args := m.Called(ctx, q, userID, limit)
	return args.Get(0).([]domain.LoginRecord), args.Error(1)
}

func (m *MockLoginHistoryRepository) StatsForUser(ctx context.Context, q repository.DBExecutor, userID int64) (*repository.LoginStats, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LoginStats), args.Error(1)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController. Embedding
// MockDBExecutor lets the services' DBExecutor assertion succeed on it.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// testTxFuncs wires the transaction control funcs to a single controller
// mock, the way the application wires them to pkg/db.
func testTxFuncs(controller *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	begin := func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
		return controller, nil
	}
	commit := func(tx db.TxController) error {
		return controller.Commit()
	}
	rollback := func(tx db.TxController) {
		_ = controller.Rollback()
	}
	return begin, commit, rollback
}
