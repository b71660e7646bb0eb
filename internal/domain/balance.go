// internal/domain/balance.go
package domain

import "time"

// Balance is one user's medal count within a single store scope. A nil
// StoreID marks the default, store-less scope. The amount is only ever
// changed through the balance service, paired with a Transaction row.
type Balance struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	StoreID   *int64    `db:"store_id" json:"store_id"`
	Amount    int64     `db:"amount" json:"amount"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewBalance creates an empty balance row for the given scope.
func NewBalance(userID int64, storeID *int64) *Balance {
	return &Balance{
		UserID:    userID,
		StoreID:   storeID,
		Amount:    0,
		UpdatedAt: time.Now().UTC(),
	}
}
