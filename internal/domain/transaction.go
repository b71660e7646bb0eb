// internal/domain/transaction.go
package domain

import "time"

// TransactionType is the closed enum of ledger operations.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
)

// Valid reports whether t is one of the two permitted types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdraw
}

// Transaction is one immutable ledger entry. BalanceBefore and BalanceAfter
// are denormalized snapshots of the mutated balance row, never recomputed.
type Transaction struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	StoreID       *int64          `db:"store_id" json:"store_id"`
	Type          TransactionType `db:"type" json:"type"`
	Amount        int64           `db:"amount" json:"amount"`
	BalanceBefore int64           `db:"balance_before" json:"balance_before"`
	BalanceAfter  int64           `db:"balance_after" json:"balance_after"`
	Description   string          `db:"description" json:"description"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction creates a Transaction snapshot for a single balance
// mutation. The ID is assigned by the store on insert.
func NewTransaction(userID int64, storeID *int64, txType TransactionType, amount, balanceBefore, balanceAfter int64, description string) *Transaction {
	return &Transaction{
		UserID:        userID,
		StoreID:       storeID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Description:   description,
		CreatedAt:     time.Now().UTC(),
	}
}

// TransactionWithUser joins the username onto a transaction for store-level
// activity views.
type TransactionWithUser struct {
	Transaction
	Username string `db:"username" json:"username"`
}
