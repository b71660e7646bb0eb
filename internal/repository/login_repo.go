// internal/repository/login_repo.go
package repository

import (
	"context"
	"database/sql"

	"medalbank/internal/domain"
)

// LoginStats summarizes a user's login history.
type LoginStats struct {
	LoginCount int64        `db:"login_count"`
	LastLogin  sql.NullTime `db:"last_login"`
}

// LoginHistoryRepository defines the interface for the append-only login
// audit trail.
type LoginHistoryRepository interface {
	// Create appends one login record and fills in its assigned ID.
	Create(ctx context.Context, q DBExecutor, record *domain.LoginRecord) error
	// ListByUser returns the user's most recent logins, newest first.
	ListByUser(ctx context.Context, q DBExecutor, userID int64, limit int) ([]domain.LoginRecord, error)
	// StatsForUser returns the total login count and last login time.
	StatsForUser(ctx context.Context, q DBExecutor, userID int64) (*LoginStats, error)
}
