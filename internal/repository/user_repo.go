// internal/repository/user_repo.go
package repository

import (
	"context"

	"medalbank/internal/domain"
)

// UserRepository defines the interface for user data operations. Users are
// provisioned outside this API, so there is no create/update here.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetByUsername retrieves a user by their unique username.
	GetByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// Exists reports whether a user with the given ID is provisioned.
	Exists(ctx context.Context, q DBExecutor, id int64) (bool, error)
}
