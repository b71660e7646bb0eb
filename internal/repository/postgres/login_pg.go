// internal/repository/postgres/login_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
)

// LoginHistoryRepository implements repository.LoginHistoryRepository for
// PostgreSQL.
type LoginHistoryRepository struct{}

// NewLoginHistoryRepository creates a new LoginHistoryRepository.
func NewLoginHistoryRepository(db *sqlx.DB) repository.LoginHistoryRepository {
	return &LoginHistoryRepository{}
}

func (r *LoginHistoryRepository) Create(ctx context.Context, q repository.DBExecutor, record *domain.LoginRecord) error {
	query := `INSERT INTO login_history (user_id, session_id, device_info, ip_address, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query, record.UserID, record.SessionID, record.DeviceInfo, record.IPAddress, record.CreatedAt).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to record login for user %d: %w", record.UserID, err)
	}
	return nil
}

func (r *LoginHistoryRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit int) ([]domain.LoginRecord, error) {
	query := `
		SELECT id, user_id, session_id, device_info, ip_address, created_at
		FROM login_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	records := []domain.LoginRecord{}
	if err := q.SelectContext(ctx, &records, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list login history for user %d: %w", userID, err)
	}
	return records, nil
}

func (r *LoginHistoryRepository) StatsForUser(ctx context.Context, q repository.DBExecutor, userID int64) (*repository.LoginStats, error) {
	query := `SELECT COUNT(*) AS login_count, MAX(created_at) AS last_login FROM login_history WHERE user_id = $1`

	var stats repository.LoginStats
	if err := q.GetContext(ctx, &stats, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get login stats for user %d: %w", userID, err)
	}
	return &stats, nil
}
