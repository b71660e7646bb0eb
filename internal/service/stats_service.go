// internal/service/stats_service.go
package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
	"medalbank/internal/util"
)

const (
	// DefaultListLimit applies when a history request names no limit.
	DefaultListLimit = 10
	// MaxListLimit caps one history page.
	MaxListLimit = 100
	// MaxTrendDays caps the trend window.
	MaxTrendDays = 365
	// DefaultTrendDays applies when a trend request names no window.
	DefaultTrendDays = 30
)

// trendThreshold is the mean-daily-net cutoff (in medals) separating the
// increasing/stable/decreasing labels.
var trendThreshold = decimal.NewFromInt(10)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ListTransactionsInput carries the conjunctive history filters.
type ListTransactionsInput struct {
	UserID       int64
	StoreID      *int64
	Type         *domain.TransactionType
	DateFrom     string
	DateTo       string
	Limit        int
	Offset       int
	IncludeStats bool
}

// ListStats totals the whole filtered set, ignoring pagination.
type ListStats struct {
	TotalDeposits  int64 `json:"total_deposits"`
	TotalWithdraws int64 `json:"total_withdraws"`
	NetChange      int64 `json:"net_change"`
}

// TransactionPage is one page of history plus the total matching count.
type TransactionPage struct {
	Transactions []domain.Transaction `json:"transactions"`
	TotalCount   int64                `json:"total_count"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
	Stats        *ListStats           `json:"stats,omitempty"`
}

// DailyStat is one calendar day's aggregated activity.
type DailyStat struct {
	Date      string `json:"date"`
	Deposits  int64  `json:"deposits"`
	Withdraws int64  `json:"withdraws"`
	Count     int64  `json:"transactions"`
	NetChange int64  `json:"net_change"`
}

// UserStats is the full statistics view for one user and period.
type UserStats struct {
	UserID           int64       `json:"user_id"`
	Period           string      `json:"period"`
	TotalDeposits    int64       `json:"total_deposits"`
	TotalWithdraws   int64       `json:"total_withdraws"`
	NetChange        int64       `json:"net_change"`
	TransactionCount int64       `json:"transaction_count"`
	DepositCount     int64       `json:"deposit_count"`
	WithdrawCount    int64       `json:"withdraw_count"`
	AvgTransaction   int64       `json:"avg_transaction"`
	LargestDeposit   int64       `json:"largest_deposit"`
	LargestWithdraw  int64       `json:"largest_withdraw"`
	FirstTransaction *time.Time  `json:"first_transaction"`
	LastTransaction  *time.Time  `json:"last_transaction"`
	DailyBreakdown   []DailyStat `json:"daily_breakdown"`
}

// UserSummary is the compact main-screen view.
type UserSummary struct {
	UserID              int64      `json:"user_id"`
	CurrentBalance      int64      `json:"current_balance"`
	TotalTransactions   int64      `json:"total_transactions"`
	TodayTransactions   int64      `json:"today_transactions"`
	WeekDeposits        int64      `json:"week_deposits"`
	WeekWithdraws       int64      `json:"week_withdraws"`
	WeekNetChange       int64      `json:"week_net_change"`
	LastTransactionTime *time.Time `json:"last_transaction_time"`
	IsActiveToday       bool       `json:"is_active_today"`
}

// TrendReport is a day-by-day series with an overall direction label.
type TrendReport struct {
	UserID        int64       `json:"user_id"`
	Days          int         `json:"analysis_days"`
	DataPoints    int         `json:"data_points"`
	Daily         []DailyStat `json:"daily_data"`
	OverallTrend  string      `json:"overall_trend"`
	AvgDailyNet   int64       `json:"avg_daily_net"`
	MostActiveDay *DailyStat  `json:"most_active_day"`
}

// StatsService is the read-only aggregate side of the ledger.
type StatsService interface {
	ListTransactions(ctx context.Context, input ListTransactionsInput) (*TransactionPage, error)
	UserStats(ctx context.Context, userID int64, period string) (*UserStats, error)
	Summary(ctx context.Context, userID int64) (*UserSummary, error)
	Trend(ctx context.Context, userID int64, days int) (*TrendReport, error)
}

type statsService struct {
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	entries    repository.TransactionRepository
	now        func() time.Time
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(dbExecutor repository.DBExecutor, userRepo repository.UserRepository, entries repository.TransactionRepository) StatsService {
	return &statsService{
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		entries:    entries,
		now:        time.Now,
	}
}

func (s *statsService) ListTransactions(ctx context.Context, input ListTransactionsInput) (*TransactionPage, error) {
	if err := validateDateRange(input.DateFrom, input.DateTo); err != nil {
		return nil, err
	}
	if input.Limit == 0 {
		input.Limit = DefaultListLimit
	}
	if input.Limit < 0 || input.Limit > MaxListLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d: %w", MaxListLimit, util.ErrInvalidInput)
	}
	if input.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative: %w", util.ErrInvalidInput)
	}
	if input.Type != nil && !input.Type.Valid() {
		return nil, fmt.Errorf("type must be %q or %q: %w",
			domain.TransactionTypeDeposit, domain.TransactionTypeWithdraw, util.ErrInvalidInput)
	}

	if err := s.requireUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	filter := repository.TransactionFilter{
		UserID:   input.UserID,
		StoreID:  input.StoreID,
		Type:     input.Type,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}

	transactions, totalCount, err := s.entries.List(ctx, s.dbExecutor, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	page := &TransactionPage{
		Transactions: transactions,
		TotalCount:   totalCount,
		Limit:        input.Limit,
		Offset:       input.Offset,
	}

	if input.IncludeStats {
		totals, err := s.entries.FilterTotals(ctx, s.dbExecutor, filter)
		if err != nil {
			return nil, fmt.Errorf("list transactions: failed to total filtered set: %w", err)
		}
		page.Stats = &ListStats{
			TotalDeposits:  totals.TotalDeposits,
			TotalWithdraws: totals.TotalWithdraws,
			NetChange:      totals.TotalDeposits - totals.TotalWithdraws,
		}
	}

	return page, nil
}

// periodSince maps a period token to its cutoff. A nil return means no date
// filter.
func (s *statsService) periodSince(period string) (*time.Time, error) {
	var days int
	switch period {
	case "all":
		return nil, nil
	case "7d":
		days = 7
	case "30d":
		days = 30
	case "90d":
		days = 90
	default:
		return nil, fmt.Errorf("period must be one of 7d, 30d, 90d, all: %w", util.ErrInvalidInput)
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	return &since, nil
}

func (s *statsService) UserStats(ctx context.Context, userID int64, period string) (*UserStats, error) {
	if period == "" {
		period = "30d"
	}
	since, err := s.periodSince(period)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	row, err := s.entries.StatsForUser(ctx, s.dbExecutor, userID, since)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	buckets, err := s.entries.DailyBreakdown(ctx, s.dbExecutor, userID, since)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	stats := &UserStats{
		UserID:           userID,
		Period:           period,
		TotalDeposits:    row.TotalDeposits,
		TotalWithdraws:   row.TotalWithdraws,
		NetChange:        row.TotalDeposits - row.TotalWithdraws,
		TransactionCount: row.TotalTransactions,
		DepositCount:     row.DepositCount,
		WithdrawCount:    row.WithdrawCount,
		DailyBreakdown:   toDailyStats(buckets),
	}
	if row.AvgAmount.Valid {
		stats.AvgTransaction = row.AvgAmount.Decimal.Round(0).IntPart()
	}
	if row.LargestDeposit.Valid {
		stats.LargestDeposit = row.LargestDeposit.Int64
	}
	if row.LargestWithdraw.Valid {
		stats.LargestWithdraw = row.LargestWithdraw.Int64
	}
	if row.FirstTransaction.Valid {
		first := row.FirstTransaction.Time
		stats.FirstTransaction = &first
	}
	if row.LastTransaction.Valid {
		last := row.LastTransaction.Time
		stats.LastTransaction = &last
	}
	return stats, nil
}

func (s *statsService) Summary(ctx context.Context, userID int64) (*UserSummary, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	row, err := s.entries.SummaryForUser(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	summary := &UserSummary{
		UserID:            userID,
		TotalTransactions: row.TotalTransactions,
		TodayTransactions: row.TodayTransactions,
		WeekDeposits:      row.WeekDeposits,
		WeekWithdraws:     row.WeekWithdraws,
		WeekNetChange:     row.WeekDeposits - row.WeekWithdraws,
		IsActiveToday:     row.TodayTransactions > 0,
	}
	if row.CurrentBalance.Valid {
		summary.CurrentBalance = row.CurrentBalance.Int64
	}
	if row.LastTransactionTime.Valid {
		last := row.LastTransactionTime.Time
		summary.LastTransactionTime = &last
	}
	return summary, nil
}

func (s *statsService) Trend(ctx context.Context, userID int64, days int) (*TrendReport, error) {
	if days == 0 {
		days = DefaultTrendDays
	}
	if days < 0 || days > MaxTrendDays {
		return nil, fmt.Errorf("days must be between 1 and %d: %w", MaxTrendDays, util.ErrInvalidInput)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	buckets, err := s.entries.DailySeries(ctx, s.dbExecutor, userID, since)
	if err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}

	report := &TrendReport{
		UserID:     userID,
		Days:       days,
		DataPoints: len(buckets),
		Daily:      toDailyStats(buckets),
	}

	var netSum int64
	var mostActive *DailyStat
	for i := range report.Daily {
		netSum += report.Daily[i].NetChange
		if mostActive == nil || report.Daily[i].Count > mostActive.Count {
			mostActive = &report.Daily[i]
		}
	}
	report.MostActiveDay = mostActive

	avg := decimal.Zero
	if len(buckets) > 0 {
		avg = decimal.NewFromInt(netSum).Div(decimal.NewFromInt(int64(len(buckets))))
	}
	report.AvgDailyNet = avg.Round(0).IntPart()
	report.OverallTrend = trendLabel(avg)
	return report, nil
}

// trendLabel classifies a mean daily net change against the fixed ±10
// thresholds.
func trendLabel(avgDailyNet decimal.Decimal) string {
	switch {
	case avgDailyNet.GreaterThan(trendThreshold):
		return "increasing"
	case avgDailyNet.LessThan(trendThreshold.Neg()):
		return "decreasing"
	default:
		return "stable"
	}
}

func (s *statsService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.userRepo.Exists(ctx, s.dbExecutor, userID)
	if err != nil {
		return fmt.Errorf("failed to check user %d: %w", userID, err)
	}
	if !exists {
		return util.ErrUserNotFound
	}
	return nil
}

func toDailyStats(buckets []repository.DailyBucket) []DailyStat {
	stats := make([]DailyStat, len(buckets))
	for i, b := range buckets {
		stats[i] = DailyStat{
			Date:      b.Date.Format("2006-01-02"),
			Deposits:  b.Deposits,
			Withdraws: b.Withdraws,
			Count:     b.Count,
			NetChange: b.NetChange,
		}
	}
	return stats
}

// validateDateRange enforces well-formed YYYY-MM-DD values with from <= to.
func validateDateRange(dateFrom, dateTo string) error {
	from, err := parseDay(dateFrom, "dateFrom")
	if err != nil {
		return err
	}
	to, err := parseDay(dateTo, "dateTo")
	if err != nil {
		return err
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("dateFrom must not be after dateTo: %w", util.ErrInvalidInput)
	}
	return nil
}

func parseDay(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if !datePattern.MatchString(value) {
		return time.Time{}, fmt.Errorf("%s must use the YYYY-MM-DD format: %w", name, util.ErrInvalidInput)
	}
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s is not a valid calendar day: %w", name, util.ErrInvalidInput)
	}
	return day, nil
}
