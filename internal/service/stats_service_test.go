// internal/service/stats_service_test.go
package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
	"medalbank/internal/util"
)

func TestListTransactions(t *testing.T) {
	userID := int64(7)

	t.Run("DefaultsAndStats", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBExecutor := new(MockDBExecutor)
		service := NewStatsService(mockDBExecutor, mockUserRepo, mockTransactionRepo)

		mockUserRepo.On("Exists", ctx, mockDBExecutor, userID).Return(true, nil).Once()
		mockTransactionRepo.On("List", ctx, mockDBExecutor, mock.MatchedBy(func(f repository.TransactionFilter) bool {
			return f.UserID == userID && f.Limit == DefaultListLimit && f.Offset == 0
		})).Return([]domain.Transaction{{ID: 3}, {ID: 2}}, int64(12), nil).Once()
		mockTransactionRepo.On("FilterTotals", ctx, mockDBExecutor, mock.Anything).
			Return(&repository.FilterTotals{TotalDeposits: 900, TotalWithdraws: 250}, nil).Once()

		page, err := service.ListTransactions(ctx, ListTransactionsInput{UserID: userID, IncludeStats: true})

		assert.NoError(t, err)
		assert.Equal(t, int64(12), page.TotalCount)
		assert.Len(t, page.Transactions, 2)
		assert.Equal(t, DefaultListLimit, page.Limit)
		assert.Equal(t, int64(650), page.Stats.NetChange)
		mock.AssertExpectationsForObjects(t, mockUserRepo, mockTransactionRepo)
	})

	t.Run("RejectsMalformedDate", func(t *testing.T) {
		ctx := context.Background()
		service := NewStatsService(new(MockDBExecutor), new(MockUserRepository), new(MockTransactionRepository))

		_, err := service.ListTransactions(ctx, ListTransactionsInput{UserID: userID, DateFrom: "2026/01/01"})
		assert.ErrorIs(t, err, util.ErrInvalidInput)

		_, err = service.ListTransactions(ctx, ListTransactionsInput{UserID: userID, DateTo: "2026-02-30"})
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("RejectsInvertedDateRange", func(t *testing.T) {
		ctx := context.Background()
		service := NewStatsService(new(MockDBExecutor), new(MockUserRepository), new(MockTransactionRepository))

		_, err := service.ListTransactions(ctx, ListTransactionsInput{
			UserID:   userID,
			DateFrom: "2026-08-10",
			DateTo:   "2026-08-01",
		})
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("RejectsOversizedLimit", func(t *testing.T) {
		ctx := context.Background()
		service := NewStatsService(new(MockDBExecutor), new(MockUserRepository), new(MockTransactionRepository))

		_, err := service.ListTransactions(ctx, ListTransactionsInput{UserID: userID, Limit: MaxListLimit + 1})
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)
		mockDBExecutor := new(MockDBExecutor)
		service := NewStatsService(mockDBExecutor, mockUserRepo, new(MockTransactionRepository))

		mockUserRepo.On("Exists", ctx, mockDBExecutor, userID).Return(false, nil).Once()

		_, err := service.ListTransactions(ctx, ListTransactionsInput{UserID: userID})
		assert.ErrorIs(t, err, util.ErrUserNotFound)
		mock.AssertExpectationsForObjects(t, mockUserRepo)
	})
}

func TestUserStats(t *testing.T) {
	userID := int64(7)

	t.Run("RoundsAverageToWholeMedals", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBExecutor := new(MockDBExecutor)
		service := NewStatsService(mockDBExecutor, mockUserRepo, mockTransactionRepo)

		mockUserRepo.On("Exists", ctx, mockDBExecutor, userID).Return(true, nil).Once()
		mockTransactionRepo.On("StatsForUser", ctx, mockDBExecutor, userID, mock.AnythingOfType("*time.Time")).
			Return(&repository.UserStatsRow{
				TotalTransactions: 3,
				TotalDeposits:     500,
				TotalWithdraws:    200,
				DepositCount:      2,
				WithdrawCount:     1,
				AvgAmount:         decimal.NewNullDecimal(decimal.RequireFromString("233.3333")),
				LargestDeposit:    sql.NullInt64{Int64: 400, Valid: true},
				LargestWithdraw:   sql.NullInt64{Int64: 200, Valid: true},
			}, nil).Once()
		mockTransactionRepo.On("DailyBreakdown", ctx, mockDBExecutor, userID, mock.AnythingOfType("*time.Time")).
			Return([]repository.DailyBucket{}, nil).Once()

		stats, err := service.UserStats(ctx, userID, "7d")

		assert.NoError(t, err)
		assert.Equal(t, "7d", stats.Period)
		assert.Equal(t, int64(233), stats.AvgTransaction)
		assert.Equal(t, int64(300), stats.NetChange)
		assert.Equal(t, int64(400), stats.LargestDeposit)
		mock.AssertExpectationsForObjects(t, mockUserRepo, mockTransactionRepo)
	})

	t.Run("AllPeriodAppliesNoCutoff", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBExecutor := new(MockDBExecutor)
		service := NewStatsService(mockDBExecutor, mockUserRepo, mockTransactionRepo)

		mockUserRepo.On("Exists", ctx, mockDBExecutor, userID).Return(true, nil).Once()
		mockTransactionRepo.On("StatsForUser", ctx, mockDBExecutor, userID, (*time.Time)(nil)).
			Return(&repository.UserStatsRow{}, nil).Once()
		mockTransactionRepo.On("DailyBreakdown", ctx, mockDBExecutor, userID, (*time.Time)(nil)).
			Return([]repository.DailyBucket{}, nil).Once()

		stats, err := service.UserStats(ctx, userID, "all")

		assert.NoError(t, err)
		assert.Equal(t, "all", stats.Period)
		mock.AssertExpectationsForObjects(t, mockUserRepo, mockTransactionRepo)
	})

	t.Run("RejectsUnknownPeriod", func(t *testing.T) {
		ctx := context.Background()
		service := NewStatsService(new(MockDBExecutor), new(MockUserRepository), new(MockTransactionRepository))

		_, err := service.UserStats(ctx, userID, "14d")
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}

func TestSummary(t *testing.T) {
	userID := int64(7)

	t.Run("ActiveToday", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBExecutor := new(MockDBExecutor)
		service := NewStatsService(mockDBExecutor, mockUserRepo, mockTransactionRepo)

		lastTime := time.Now().UTC()
		mockUserRepo.On("Exists", ctx, mockDBExecutor, userID).Return(true, nil).Once()
		mockTransactionRepo.On("SummaryForUser", ctx, mockDBExecutor, userID).
			Return(&repository.UserSummaryRow{
				CurrentBalance:      sql.NullInt64{Int64: 750, Valid: true},
				TotalTransactions:   42,
				TodayTransactions:   2,
				WeekDeposits:        300,
				WeekWithdraws:       120,
				LastTransactionTime: sql.NullTime{Time: lastTime, Valid: true},
			}, nil).Once()

		summary, err := service.Summary(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(750), summary.CurrentBalance)
		assert.Equal(t, int64(180), summary.WeekNetChange)
		assert.True(t, summary.IsActiveToday)
		assert.Equal(t, &lastTime, summary.LastTransactionTime)
		mock.AssertExpectationsForObjects(t, mockUserRepo, mockTransactionRepo)
	})

	t.Run("NoActivityYet", func(t *testing.T) {
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBExecutor := new(MockDBExecutor)
		service := NewStatsService(mockDBExecutor, mockUserRepo, mockTransactionRepo)

		mockUserRepo.On("Exists", ctx, mockDBExecutor, userID).Return(true, nil).Once()
		mockTransactionRepo.On("SummaryForUser", ctx, mockDBExecutor, userID).
			Return(&repository.UserSummaryRow{}, nil).Once()

		summary, err := service.Summary(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), summary.CurrentBalance)
		assert.False(t, summary.IsActiveToday)
		assert.Nil(t, summary.LastTransactionTime)
		mock.AssertExpectationsForObjects(t, mockUserRepo, mockTransactionRepo)
	})
}

func TestTrend(t *testing.T) {
	userID := int64(7)

	day := func(offset int) time.Time {
		return time.Date(2026, 8, 1+offset, 0, 0, 0, 0, time.UTC)
	}

	runTrend := func(t *testing.T, buckets []repository.DailyBucket) *TrendReport {
		t.Helper()
		ctx := context.Background()
		mockUserRepo := new(MockUserRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBExecutor := new(MockDBExecutor)
		service := NewStatsService(mockDBExecutor, mockUserRepo, mockTransactionRepo)

		mockUserRepo.On("Exists", ctx, mockDBExecutor, userID).Return(true, nil).Once()
		mockTransactionRepo.On("DailySeries", ctx, mockDBExecutor, userID, mock.AnythingOfType("time.Time")).
			Return(buckets, nil).Once()

		report, err := service.Trend(ctx, userID, 30)
		assert.NoError(t, err)
		return report
	}

	t.Run("IncreasingAboveThreshold", func(t *testing.T) {
		report := runTrend(t, []repository.DailyBucket{
			{Date: day(0), NetChange: 15, Count: 1},
			{Date: day(1), NetChange: 20, Count: 2},
		})
		assert.Equal(t, "increasing", report.OverallTrend)
		assert.Equal(t, int64(18), report.AvgDailyNet)
	})

	t.Run("StableAtThresholdBoundary", func(t *testing.T) {
		report := runTrend(t, []repository.DailyBucket{
			{Date: day(0), NetChange: 10, Count: 1},
			{Date: day(1), NetChange: 10, Count: 1},
		})
		assert.Equal(t, "stable", report.OverallTrend)
	})

	t.Run("DecreasingBelowThreshold", func(t *testing.T) {
		report := runTrend(t, []repository.DailyBucket{
			{Date: day(0), NetChange: -40, Count: 3},
			{Date: day(1), NetChange: 5, Count: 1},
		})
		assert.Equal(t, "decreasing", report.OverallTrend)
	})

	t.Run("NoDataIsStable", func(t *testing.T) {
		report := runTrend(t, []repository.DailyBucket{})
		assert.Equal(t, "stable", report.OverallTrend)
		assert.Zero(t, report.DataPoints)
		assert.Nil(t, report.MostActiveDay)
	})

	t.Run("PicksMostActiveDay", func(t *testing.T) {
		report := runTrend(t, []repository.DailyBucket{
			{Date: day(0), NetChange: 5, Count: 2},
			{Date: day(1), NetChange: 5, Count: 7},
			{Date: day(2), NetChange: 5, Count: 4},
		})
		assert.NotNil(t, report.MostActiveDay)
		assert.Equal(t, int64(7), report.MostActiveDay.Count)
		assert.Equal(t, "2026-08-02", report.MostActiveDay.Date)
	})

	t.Run("RejectsOversizedWindow", func(t *testing.T) {
		ctx := context.Background()
		service := NewStatsService(new(MockDBExecutor), new(MockUserRepository), new(MockTransactionRepository))

		_, err := service.Trend(ctx, userID, MaxTrendDays+1)
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}
