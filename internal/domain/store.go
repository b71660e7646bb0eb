// internal/domain/store.go
package domain

import "time"

// DefaultStoreColor is applied when a store is created without one.
const DefaultStoreColor = "#3B82F6"

// Store is a merchant/location scope that partitions balances and
// transactions. UserCount and TotalBalance are read-time aggregates over the
// store's balance rows, not stored columns.
type Store struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Color       string    `db:"color" json:"color"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	UserCount    int64 `db:"user_count" json:"user_count"`
	TotalBalance int64 `db:"total_balance" json:"total_balance"`
}

// NewStore creates a Store with defaults filled in.
func NewStore(name string, description *string, color string) *Store {
	if color == "" {
		color = DefaultStoreColor
	}
	now := time.Now().UTC()
	return &Store{
		Name:        name,
		Description: description,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
