package testutil

import (
	"context"
	"testing"

	"chipbot/database"
	"chipbot/domain/entities"

	"github.com/stretchr/testify/require"
)

// CreateTestAccount inserts an account with a readable default display name
func CreateTestAccount(t *testing.T, db *database.DB, userID int64, balance int64) *entities.Account {
	t.Helper()

	var account entities.Account
	query := `
		INSERT INTO accounts (user_id, display_name, balance)
		VALUES ($1, $2, $3)
		RETURNING user_id, display_name, balance, last_daily, last_weekly, last_monthly,
			lootboxes, inventory, created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query, userID, "tester", balance).Scan(
		&account.UserID,
		&account.DisplayName,
		&account.Balance,
		&account.LastDaily,
		&account.LastWeekly,
		&account.LastMonthly,
		&account.Lootboxes,
		&account.Inventory,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	require.NoError(t, err)
	return &account
}

// CreateTestBalanceHistory builds an unsaved history record consistent with
// the given balances
func CreateTestBalanceHistory(userID int64, transactionType entities.TransactionType, before, after int64) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   before,
		BalanceAfter:    after,
		ChangeAmount:    after - before,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}
