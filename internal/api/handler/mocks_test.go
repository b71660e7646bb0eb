// internal/api/handler/mocks_test.go
package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medalbank/internal/domain"
	"medalbank/internal/service"
)

// MockBalanceService is a mock implementation of service.BalanceService.
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetBalance(ctx context.Context, userID int64, storeID *int64) (*service.BalanceSnapshot, error) {
	args := m.Called(ctx, userID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BalanceSnapshot), args.Error(1)
}

func (m *MockBalanceService) ApplyTransaction(ctx context.Context, input service.ApplyTransactionInput) (*domain.Transaction, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) ApplyBatch(ctx context.Context, userID int64, operations []service.BatchOperation, validateOnly bool) (*service.BatchResult, error) {
	args := m.Called(ctx, userID, operations, validateOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchResult), args.Error(1)
}

func (m *MockBatchService) BulkApply(ctx context.Context, userID int64, opType domain.TransactionType, amount int64, count int, description string) (*service.BatchResult, error) {
	args := m.Called(ctx, userID, opType, amount, count, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchResult), args.Error(1)
}

func (m *MockBatchService) Validate(ctx context.Context, userID int64, netChange int64) (*service.BatchValidation, error) {
	args := m.Called(ctx, userID, netChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchValidation), args.Error(1)
}

// MockStatsService is a mock implementation of service.StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) ListTransactions(ctx context.Context, input service.ListTransactionsInput) (*service.TransactionPage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransactionPage), args.Error(1)
}

func (m *MockStatsService) UserStats(ctx context.Context, userID int64, period string) (*service.UserStats, error) {
	args := m.Called(ctx, userID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserStats), args.Error(1)
}

func (m *MockStatsService) Summary(ctx context.Context, userID int64) (*service.UserSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserSummary), args.Error(1)
}

func (m *MockStatsService) Trend(ctx context.Context, userID int64, days int) (*service.TrendReport, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TrendReport), args.Error(1)
}

// MockStoreService is a mock implementation of service.StoreService.
type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) ListStores(ctx context.Context) ([]domain.Store, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Store), args.Error(1)
}

func (m *MockStoreService) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockStoreService) CreateStore(ctx context.Context, input service.CreateStoreInput) (*domain.Store, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockStoreService) UpdateStore(ctx context.Context, id int64, input service.UpdateStoreInput) (*domain.Store, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockStoreService) DeleteStore(ctx context.Context, id int64, force bool) (*service.StoreDeletion, error) {
	args := m.Called(ctx, id, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoreDeletion), args.Error(1)
}

func (m *MockStoreService) StoreStats(ctx context.Context, id int64) (*service.StoreStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoreStats), args.Error(1)
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input service.LoginInput) (*service.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) WhoAmI(ctx context.Context, token string) (*service.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Identity), args.Error(1)
}

func (m *MockAuthService) LoginHistory(ctx context.Context, userID int64, limit int) ([]domain.LoginRecord, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.LoginRecord), args.Error(1)
}
