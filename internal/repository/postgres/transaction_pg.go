// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for
// PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

func (r *TransactionRepository) Create(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (user_id, store_id, type, amount, balance_before, balance_after, description, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.UserID,
		transaction.StoreID,
		transaction.Type,
		transaction.Amount,
		transaction.BalanceBefore,
		transaction.BalanceAfter,
		transaction.Description,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// buildFilterPredicates turns a TransactionFilter into a parameterized WHERE
// clause. Values travel exclusively through args; no value is ever spliced
// into the SQL text.
func buildFilterPredicates(filter repository.TransactionFilter) (string, []interface{}) {
	conds := []string{"user_id = $1"}
	args := []interface{}{filter.UserID}

	if filter.StoreID != nil {
		args = append(args, *filter.StoreID)
		conds = append(conds, fmt.Sprintf("store_id = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		conds = append(conds, fmt.Sprintf("created_at::date >= $%d::date", len(args)))
	}
	if filter.DateTo != "" {
		args = append(args, filter.DateTo)
		conds = append(conds, fmt.Sprintf("created_at::date <= $%d::date", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

func (r *TransactionRepository) List(ctx context.Context, q repository.DBExecutor, filter repository.TransactionFilter) ([]domain.Transaction, int64, error) {
	where, args := buildFilterPredicates(filter)

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + where
	if err := q.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for user %d: %w", filter.UserID, err)
	}

	pageArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT id, user_id, store_id, type, amount, balance_before, balance_after, description, created_at
		FROM transactions
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	transactions := []domain.Transaction{}
	if err := q.SelectContext(ctx, &transactions, query, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for user %d: %w", filter.UserID, err)
	}

	return transactions, totalCount, nil
}

func (r *TransactionRepository) FilterTotals(ctx context.Context, q repository.DBExecutor, filter repository.TransactionFilter) (*repository.FilterTotals, error) {
	where, args := buildFilterPredicates(filter)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE 0 END), 0)  AS total_deposits,
			COALESCE(SUM(CASE WHEN type = 'withdraw' THEN amount ELSE 0 END), 0) AS total_withdraws
		FROM transactions
		WHERE ` + where

	var totals repository.FilterTotals
	if err := q.GetContext(ctx, &totals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to total transactions for user %d: %w", filter.UserID, err)
	}
	return &totals, nil
}

func (r *TransactionRepository) StatsForUser(ctx context.Context, q repository.DBExecutor, userID int64, since *time.Time) (*repository.UserStatsRow, error) {
	where, args := userPeriodPredicates(userID, since)

	query := `
		SELECT
			COUNT(*)                                                             AS total_transactions,
			COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE 0 END), 0)  AS total_deposits,
			COALESCE(SUM(CASE WHEN type = 'withdraw' THEN amount ELSE 0 END), 0) AS total_withdraws,
			COUNT(*) FILTER (WHERE type = 'deposit')                             AS deposit_count,
			COUNT(*) FILTER (WHERE type = 'withdraw')                            AS withdraw_count,
			AVG(amount)                                                          AS avg_amount,
			MAX(amount) FILTER (WHERE type = 'deposit')                          AS largest_deposit,
			MAX(amount) FILTER (WHERE type = 'withdraw')                         AS largest_withdraw,
			MIN(created_at)                                                      AS first_transaction,
			MAX(created_at)                                                      AS last_transaction
		FROM transactions
		WHERE ` + where

	var stats repository.UserStatsRow
	if err := q.GetContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate stats for user %d: %w", userID, err)
	}
	return &stats, nil
}

const dailyBucketColumns = `
	created_at::date                                                     AS date,
	COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE 0 END), 0)  AS deposits,
	COALESCE(SUM(CASE WHEN type = 'withdraw' THEN amount ELSE 0 END), 0) AS withdraws,
	COUNT(*)                                                             AS tx_count,
	COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE -amount END), 0) AS net_change`

func (r *TransactionRepository) DailyBreakdown(ctx context.Context, q repository.DBExecutor, userID int64, since *time.Time) ([]repository.DailyBucket, error) {
	where, args := userPeriodPredicates(userID, since)
	return r.dailyBuckets(ctx, q, where, args, "DESC")
}

func (r *TransactionRepository) DailySeries(ctx context.Context, q repository.DBExecutor, userID int64, since time.Time) ([]repository.DailyBucket, error) {
	where, args := userPeriodPredicates(userID, &since)
	return r.dailyBuckets(ctx, q, where, args, "ASC")
}

func (r *TransactionRepository) dailyBuckets(ctx context.Context, q repository.DBExecutor, where string, args []interface{}, order string) ([]repository.DailyBucket, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s GROUP BY created_at::date ORDER BY date %s`,
		dailyBucketColumns, where, order)

	buckets := []repository.DailyBucket{}
	if err := q.SelectContext(ctx, &buckets, query, args...); err != nil {
		return nil, fmt.Errorf("failed to bucket transactions by day: %w", err)
	}
	return buckets, nil
}

func userPeriodPredicates(userID int64, since *time.Time) (string, []interface{}) {
	if since == nil {
		return "user_id = $1", []interface{}{userID}
	}
	return "user_id = $1 AND created_at >= $2", []interface{}{userID, *since}
}

func (r *TransactionRepository) SummaryForUser(ctx context.Context, q repository.DBExecutor, userID int64) (*repository.UserSummaryRow, error) {
	query := `
		SELECT
			(SELECT SUM(amount) FROM balances WHERE user_id = $1)                                   AS current_balance,
			(SELECT COUNT(*) FROM transactions WHERE user_id = $1)                                  AS total_transactions,
			(SELECT COUNT(*) FROM transactions WHERE user_id = $1
				AND created_at::date = CURRENT_DATE)                                                AS today_transactions,
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1
				AND type = 'deposit' AND created_at >= now() - interval '7 days')                   AS week_deposits,
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1
				AND type = 'withdraw' AND created_at >= now() - interval '7 days')                  AS week_withdraws,
			(SELECT MAX(created_at) FROM transactions WHERE user_id = $1)                           AS last_transaction_time`

	var summary repository.UserSummaryRow
	if err := q.GetContext(ctx, &summary, query, userID); err != nil {
		return nil, fmt.Errorf("failed to summarize activity for user %d: %w", userID, err)
	}
	return &summary, nil
}

func (r *TransactionRepository) RecentForStore(ctx context.Context, q repository.DBExecutor, storeID int64, limit int) ([]domain.TransactionWithUser, error) {
	query := `
		SELECT t.id, t.user_id, t.store_id, t.type, t.amount, t.balance_before, t.balance_after,
		       t.description, t.created_at, u.username
		FROM transactions t
		JOIN users u ON u.id = t.user_id
		WHERE t.store_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2`

	recent := []domain.TransactionWithUser{}
	if err := q.SelectContext(ctx, &recent, query, storeID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch recent transactions for store %d: %w", storeID, err)
	}
	return recent, nil
}

func (r *TransactionRepository) DeleteByStore(ctx context.Context, q repository.DBExecutor, storeID int64) (int64, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM transactions WHERE store_id = $1`, storeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions for store %d: %w", storeID, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted transactions for store %d: %w", storeID, err)
	}
	return deleted, nil
}
