package repository

import (
	"context"
	"testing"

	"chipbot/domain/entities"
	"chipbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceHistoryRepository_Record(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestAccount(t, testDB.DB, 123456, 1000)

	t.Run("records entry with metadata", func(t *testing.T) {
		history := testutil.CreateTestBalanceHistory(account.UserID, entities.TransactionTypeCoinflipWin, 1000, 1200)

		err := repo.Record(ctx, history)
		require.NoError(t, err)
		assert.NotZero(t, history.ID)
		assert.False(t, history.CreatedAt.IsZero())
	})

	t.Run("rejects inconsistent change", func(t *testing.T) {
		history := &entities.BalanceHistory{
			UserID:          account.UserID,
			BalanceBefore:   1000,
			BalanceAfter:    1100,
			ChangeAmount:    50, // does not match
			TransactionType: entities.TransactionTypeCoinflipWin,
		}
		err := repo.Record(ctx, history)
		assert.Error(t, err)
	})
}

func TestBalanceHistoryRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestAccount(t, testDB.DB, 123456, 0)
	other := testutil.CreateTestAccount(t, testDB.DB, 654321, 0)

	balance := int64(0)
	for i := 0; i < 7; i++ {
		history := testutil.CreateTestBalanceHistory(account.UserID, entities.TransactionTypeDailyReward, balance, balance+500)
		require.NoError(t, repo.Record(ctx, history))
		balance += 500
	}
	require.NoError(t, repo.Record(ctx, testutil.CreateTestBalanceHistory(other.UserID, entities.TransactionTypeTransferIn, 0, 100)))

	t.Run("returns newest first, scoped to user", func(t *testing.T) {
		entries, err := repo.GetByUser(ctx, account.UserID, 5)
		require.NoError(t, err)
		require.Len(t, entries, 5)

		assert.Equal(t, int64(3500), entries[0].BalanceAfter)
		for _, entry := range entries {
			assert.Equal(t, account.UserID, entry.UserID)
			assert.Equal(t, entities.TransactionTypeDailyReward, entry.TransactionType)
		}
	})

	t.Run("no history", func(t *testing.T) {
		entries, err := repo.GetByUser(ctx, 999999, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
