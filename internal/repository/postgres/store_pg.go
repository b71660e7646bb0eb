// internal/repository/postgres/store_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
	"medalbank/internal/util"
)

const storeSelectColumns = `
	s.id, s.name, s.description, s.color, s.created_at, s.updated_at,
	COUNT(DISTINCT b.user_id) AS user_count,
	COALESCE(SUM(b.amount), 0) AS total_balance`

// StoreRepository implements repository.StoreRepository for PostgreSQL.
type StoreRepository struct{}

// NewStoreRepository creates a new StoreRepository.
func NewStoreRepository(db *sqlx.DB) repository.StoreRepository {
	return &StoreRepository{}
}

func (r *StoreRepository) List(ctx context.Context, q repository.DBExecutor) ([]domain.Store, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM stores s
		LEFT JOIN balances b ON b.store_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at ASC`, storeSelectColumns)

	stores := []domain.Store{}
	if err := q.SelectContext(ctx, &stores, query); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

func (r *StoreRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Store, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM stores s
		LEFT JOIN balances b ON b.store_id = s.id
		WHERE s.id = $1
		GROUP BY s.id`, storeSelectColumns)

	var store domain.Store
	err := q.GetContext(ctx, &store, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get store by ID %d: %w", id, err)
	}
	return &store, nil
}

func (r *StoreRepository) NameTaken(ctx context.Context, q repository.DBExecutor, name string, excludeID int64) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM stores WHERE name = $1 AND id <> $2)`
	if err := q.GetContext(ctx, &taken, query, name, excludeID); err != nil {
		return false, fmt.Errorf("failed to check store name %q: %w", name, err)
	}
	return taken, nil
}

func (r *StoreRepository) Create(ctx context.Context, q repository.DBExecutor, store *domain.Store) error {
	query := `INSERT INTO stores (name, description, color, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query, store.Name, store.Description, store.Color, store.CreatedAt, store.UpdatedAt).Scan(&store.ID)
	if err != nil {
		return fmt.Errorf("failed to create store %q: %w", store.Name, err)
	}
	return nil
}

func (r *StoreRepository) Update(ctx context.Context, q repository.DBExecutor, store *domain.Store) error {
	query := `UPDATE stores SET name = $1, description = $2, color = $3, updated_at = $4 WHERE id = $5`
	result, err := q.ExecContext(ctx, query, store.Name, store.Description, store.Color, store.UpdatedAt, store.ID)
	if err != nil {
		return fmt.Errorf("failed to update store %d: %w", store.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm update of store %d: %w", store.ID, err)
	}
	if affected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete store %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm deletion of store %d: %w", id, err)
	}
	if affected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *StoreRepository) RelatedData(ctx context.Context, q repository.DBExecutor, id int64) (*repository.StoreRelatedData, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM balances WHERE store_id = $1)                  AS balance_count,
			(SELECT COUNT(*) FROM transactions WHERE store_id = $1)              AS transaction_count,
			(SELECT COALESCE(SUM(amount), 0) FROM balances WHERE store_id = $1)  AS total_balance`

	var related repository.StoreRelatedData
	if err := q.GetContext(ctx, &related, query, id); err != nil {
		return nil, fmt.Errorf("failed to inspect related data for store %d: %w", id, err)
	}
	return &related, nil
}

func (r *StoreRepository) Stats(ctx context.Context, q repository.DBExecutor, id int64) (*repository.StoreStatsRow, error) {
	query := `
		SELECT
			(SELECT COUNT(DISTINCT user_id) FROM balances WHERE store_id = $1)   AS user_count,
			(SELECT COALESCE(SUM(amount), 0) FROM balances WHERE store_id = $1)  AS total_balance,
			(SELECT COUNT(*) FROM transactions WHERE store_id = $1)              AS transaction_count,
			(SELECT COALESCE(SUM(amount), 0) FROM transactions
				WHERE store_id = $1 AND type = 'deposit')                        AS total_deposits,
			(SELECT COALESCE(SUM(amount), 0) FROM transactions
				WHERE store_id = $1 AND type = 'withdraw')                       AS total_withdraws`

	var stats repository.StoreStatsRow
	if err := q.GetContext(ctx, &stats, query, id); err != nil {
		return nil, fmt.Errorf("failed to aggregate stats for store %d: %w", id, err)
	}
	return &stats, nil
}
