// internal/repository/postgres/balance_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
	"medalbank/internal/util"
)

// Balance rows are unique per (user_id, COALESCE(store_id, 0)); the COALESCE
// folds the NULL default scope into the same arbiter the unique index uses.
const balanceScopeCond = `user_id = $1 AND COALESCE(store_id, 0) = COALESCE($2::bigint, 0)`

// BalanceRepository implements repository.BalanceRepository for PostgreSQL.
type BalanceRepository struct{}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(db *sqlx.DB) repository.BalanceRepository {
	return &BalanceRepository{}
}

func (r *BalanceRepository) GetForScope(ctx context.Context, q repository.DBExecutor, userID int64, storeID *int64) (*domain.Balance, error) {
	return r.get(ctx, q, userID, storeID, false)
}

func (r *BalanceRepository) GetForScopeLocked(ctx context.Context, q repository.DBExecutor, userID int64, storeID *int64) (*domain.Balance, error) {
	return r.get(ctx, q, userID, storeID, true)
}

func (r *BalanceRepository) get(ctx context.Context, q repository.DBExecutor, userID int64, storeID *int64, forUpdate bool) (*domain.Balance, error) {
	query := `SELECT id, user_id, store_id, amount, updated_at FROM balances WHERE ` + balanceScopeCond
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var balance domain.Balance
	err := q.GetContext(ctx, &balance, query, userID, storeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get balance for user %d: %w", userID, err)
	}
	return &balance, nil
}

func (r *BalanceRepository) SumForUser(ctx context.Context, q repository.DBExecutor, userID int64) (int64, *time.Time, error) {
	query := `SELECT COALESCE(SUM(amount), 0), MAX(updated_at) FROM balances WHERE user_id = $1`

	var total int64
	var updatedAt sql.NullTime
	err := q.QueryRowContext(ctx, query, userID).Scan(&total, &updatedAt)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to sum balances for user %d: %w", userID, err)
	}
	if !updatedAt.Valid {
		return total, nil, nil
	}
	return total, &updatedAt.Time, nil
}

func (r *BalanceRepository) Upsert(ctx context.Context, q repository.DBExecutor, balance *domain.Balance) error {
	query := `INSERT INTO balances (user_id, store_id, amount, updated_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (user_id, COALESCE(store_id, 0))
              DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
              RETURNING id`
	err := q.QueryRowContext(ctx, query, balance.UserID, balance.StoreID, balance.Amount, balance.UpdatedAt).Scan(&balance.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert balance for user %d: %w", balance.UserID, err)
	}
	return nil
}

func (r *BalanceRepository) CreateZeroBalances(ctx context.Context, q repository.DBExecutor, storeID int64) (int64, error) {
	query := `INSERT INTO balances (user_id, store_id, amount, updated_at)
              SELECT id, $1, 0, now() FROM users
              ON CONFLICT (user_id, COALESCE(store_id, 0)) DO NOTHING`
	result, err := q.ExecContext(ctx, query, storeID)
	if err != nil {
		return 0, fmt.Errorf("failed to fan out zero balances for store %d: %w", storeID, err)
	}
	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count fanned-out balances for store %d: %w", storeID, err)
	}
	return created, nil
}

func (r *BalanceRepository) DeleteByStore(ctx context.Context, q repository.DBExecutor, storeID int64) (int64, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM balances WHERE store_id = $1`, storeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete balances for store %d: %w", storeID, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted balances for store %d: %w", storeID, err)
	}
	return deleted, nil
}
