// internal/repository/postgres/transaction_pg_test.go
package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medalbank/internal/domain"
	"medalbank/internal/repository"
)

func TestBuildFilterPredicates(t *testing.T) {
	t.Run("UserOnly", func(t *testing.T) {
		where, args := buildFilterPredicates(repository.TransactionFilter{UserID: 7})

		assert.Equal(t, "user_id = $1", where)
		assert.Equal(t, []interface{}{int64(7)}, args)
	})

	t.Run("AllPredicates", func(t *testing.T) {
		storeID := int64(3)
		txType := domain.TransactionTypeWithdraw
		where, args := buildFilterPredicates(repository.TransactionFilter{
			UserID:   7,
			StoreID:  &storeID,
			Type:     &txType,
			DateFrom: "2026-08-01",
			DateTo:   "2026-08-28",
		})

		assert.Equal(t,
			"user_id = $1 AND store_id = $2 AND type = $3 AND created_at::date >= $4::date AND created_at::date <= $5::date",
			where)
		assert.Equal(t, []interface{}{int64(7), int64(3), domain.TransactionTypeWithdraw, "2026-08-01", "2026-08-28"}, args)
	})

	t.Run("PlaceholdersStayDenseWhenPredicatesAreSkipped", func(t *testing.T) {
		where, args := buildFilterPredicates(repository.TransactionFilter{
			UserID: 7,
			DateTo: "2026-08-28",
		})

		assert.Equal(t, "user_id = $1 AND created_at::date <= $2::date", where)
		assert.Len(t, args, 2)
	})

	t.Run("ValuesNeverAppearInSQLText", func(t *testing.T) {
		txType := domain.TransactionTypeDeposit
		where, _ := buildFilterPredicates(repository.TransactionFilter{
			UserID:   7,
			Type:     &txType,
			DateFrom: "2026-01-01",
		})

		assert.NotContains(t, where, "deposit")
		assert.NotContains(t, where, "2026-01-01")
	})
}
