// internal/repository/transaction_repo.go
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"medalbank/internal/domain"
)

// TransactionFilter is a conjunctive (AND) predicate set for history queries.
// Dates are inclusive calendar days in YYYY-MM-DD form, validated upstream.
type TransactionFilter struct {
	UserID   int64
	StoreID  *int64
	Type     *domain.TransactionType
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}

// FilterTotals aggregates the full matching set of a filter, ignoring
// limit/offset.
type FilterTotals struct {
	TotalDeposits  int64 `db:"total_deposits"`
	TotalWithdraws int64 `db:"total_withdraws"`
}

// UserStatsRow is the raw aggregate row behind the user statistics view.
// AvgAmount is scanned as a decimal so rounding happens once, at the edge.
type UserStatsRow struct {
	TotalTransactions int64               `db:"total_transactions"`
	TotalDeposits     int64               `db:"total_deposits"`
	TotalWithdraws    int64               `db:"total_withdraws"`
	DepositCount      int64               `db:"deposit_count"`
	WithdrawCount     int64               `db:"withdraw_count"`
	AvgAmount         decimal.NullDecimal `db:"avg_amount"`
	LargestDeposit    sql.NullInt64       `db:"largest_deposit"`
	LargestWithdraw   sql.NullInt64       `db:"largest_withdraw"`
	FirstTransaction  sql.NullTime        `db:"first_transaction"`
	LastTransaction   sql.NullTime        `db:"last_transaction"`
}

// DailyBucket is one calendar day's activity. Only days with at least one
// transaction produce a bucket.
type DailyBucket struct {
	Date      time.Time `db:"date"`
	Deposits  int64     `db:"deposits"`
	Withdraws int64     `db:"withdraws"`
	Count     int64     `db:"tx_count"`
	NetChange int64     `db:"net_change"`
}

// UserSummaryRow backs the compact main-screen summary.
type UserSummaryRow struct {
	CurrentBalance      sql.NullInt64 `db:"current_balance"`
	TotalTransactions   int64         `db:"total_transactions"`
	TodayTransactions   int64         `db:"today_transactions"`
	WeekDeposits        int64         `db:"week_deposits"`
	WeekWithdraws       int64         `db:"week_withdraws"`
	LastTransactionTime sql.NullTime  `db:"last_transaction_time"`
}

// TransactionRepository defines the interface for ledger entry operations.
// Entries are immutable; the only delete path is the store force-delete
// cascade.
type TransactionRepository interface {
	// Create appends one ledger entry and fills in its assigned ID.
	Create(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// List returns the filtered page newest-first plus the total matching
	// count ignoring limit/offset.
	List(ctx context.Context, q DBExecutor, filter TransactionFilter) ([]domain.Transaction, int64, error)
	// FilterTotals sums deposits and withdrawals over the whole filtered set.
	FilterTotals(ctx context.Context, q DBExecutor, filter TransactionFilter) (*FilterTotals, error)
	// StatsForUser aggregates all of a user's entries created at or after
	// since; a nil since applies no date filter.
	StatsForUser(ctx context.Context, q DBExecutor, userID int64, since *time.Time) (*UserStatsRow, error)
	// DailyBreakdown returns per-day buckets descending by date.
	DailyBreakdown(ctx context.Context, q DBExecutor, userID int64, since *time.Time) ([]DailyBucket, error)
	// DailySeries returns per-day buckets ascending by date, for trends.
	DailySeries(ctx context.Context, q DBExecutor, userID int64, since time.Time) ([]DailyBucket, error)
	// SummaryForUser computes the compact summary in a single query.
	SummaryForUser(ctx context.Context, q DBExecutor, userID int64) (*UserSummaryRow, error)
	// RecentForStore returns the store's latest entries with usernames.
	RecentForStore(ctx context.Context, q DBExecutor, storeID int64, limit int) ([]domain.TransactionWithUser, error)
	// DeleteByStore removes all entries scoped to a store and returns how
	// many were deleted. Only used by store force-deletion.
	DeleteByStore(ctx context.Context, q DBExecutor, storeID int64) (int64, error)
}
