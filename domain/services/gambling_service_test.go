package services

import (
	"context"
	"math/rand"
	"testing"

	"chipbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRandom returns preset values, for driving wager outcomes directly
type fixedRandom struct {
	ints   []int
	floats []float64
}

func (f *fixedRandom) Intn(n int) int {
	v := f.ints[0] % n
	f.ints = f.ints[1:]
	return v
}

func (f *fixedRandom) Float64() float64 {
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

func (f *fixedRandom) Shuffle(n int, swap func(i, j int)) {}

func TestGamblingService_Coinflip(t *testing.T) {
	SetupTestConfig(t)
	ctx := context.Background()

	t.Run("heads doubles the stake", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		account := NewTestAccount(TestUser1ID, TestUser1Name, 100)

		helper.ExpectAccountLock(TestUser1ID, account)
		helper.ExpectAccountUpdate()
		helper.ExpectBalanceHistoryRecord(TestUser1ID, 200, entities.TransactionTypeCoinflipWin)
		helper.ExpectAnyEventPublish()

		service := NewGamblingService(mocks.AccountRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher, &fixedRandom{ints: []int{0}})
		result, err := service.Coinflip(ctx, TestUser1ID, TestUser1Name, entities.StakeAll())
		require.NoError(t, err)

		assert.True(t, result.Heads)
		assert.True(t, result.Won)
		assert.Equal(t, int64(100), result.Stake)
		assert.Equal(t, int64(200), result.NewBalance)
		mocks.AssertAllExpectations(t)
	})

	t.Run("tails loses the stake", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		account := NewTestAccount(TestUser1ID, TestUser1Name, 100)

		helper.ExpectAccountLock(TestUser1ID, account)
		helper.ExpectAccountUpdate()
		helper.ExpectBalanceHistoryRecord(TestUser1ID, 0, entities.TransactionTypeCoinflipLoss)
		helper.ExpectAnyEventPublish()

		service := NewGamblingService(mocks.AccountRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher, &fixedRandom{ints: []int{1}})
		result, err := service.Coinflip(ctx, TestUser1ID, TestUser1Name, entities.StakeAll())
		require.NoError(t, err)

		assert.False(t, result.Heads)
		assert.Equal(t, int64(0), result.NewBalance)
	})

	t.Run("stake above balance", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		account := NewTestAccount(TestUser1ID, TestUser1Name, 100)

		helper.ExpectAccountLock(TestUser1ID, account)

		service := NewGamblingService(mocks.AccountRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher, &fixedRandom{ints: []int{0}})
		_, err := service.Coinflip(ctx, TestUser1ID, TestUser1Name, entities.StakeOf(101))
		assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
		assert.Equal(t, int64(100), account.Balance)
	})

	t.Run("zero stake", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		account := NewTestAccount(TestUser1ID, TestUser1Name, 100)

		helper.ExpectAccountLock(TestUser1ID, account)

		service := NewGamblingService(mocks.AccountRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher, &fixedRandom{ints: []int{0}})
		_, err := service.Coinflip(ctx, TestUser1ID, TestUser1Name, entities.StakeOf(0))
		assert.ErrorIs(t, err, entities.ErrInvalidStake)
	})
}

func TestGamblingService_Limbo(t *testing.T) {
	SetupTestConfig(t)
	ctx := context.Background()

	t.Run("target at or below start always wins", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		account := NewTestAccount(TestUser1ID, TestUser1Name, 1000)

		helper.ExpectAccountLock(TestUser1ID, account)
		helper.ExpectAccountUpdate()
		// payout floor(100 * 1.10) = 110, net +10
		helper.ExpectBalanceHistoryRecord(TestUser1ID, 1010, entities.TransactionTypeLimboWin)
		helper.ExpectAnyEventPublish()

		service := NewGamblingService(mocks.AccountRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher, &fixedRandom{})
		result, err := service.Limbo(ctx, TestUser1ID, TestUser1Name, 1.10, entities.StakeOf(100))
		require.NoError(t, err)

		assert.True(t, result.Won)
		assert.Equal(t, int64(10), result.Winnings)
		assert.Equal(t, int64(1010), result.NewBalance)
		mocks.AssertAllExpectations(t)
	})

	t.Run("target out of reach loses the stake", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		account := NewTestAccount(TestUser1ID, TestUser1Name, 1000)

		helper.ExpectAccountLock(TestUser1ID, account)
		helper.ExpectAccountUpdate()
		helper.ExpectBalanceHistoryRecord(TestUser1ID, 900, entities.TransactionTypeLimboLoss)
		helper.ExpectAnyEventPublish()

		// Always draw the smallest candidate (1.01): the multiplier crawls to
		// the 1.4 ceiling and can never reach 100x.
		draws := &fixedRandom{floats: make([]float64, 64)}
		service := NewGamblingService(mocks.AccountRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher, draws)
		result, err := service.Limbo(ctx, TestUser1ID, TestUser1Name, 100.0, entities.StakeOf(100))
		require.NoError(t, err)

		assert.False(t, result.Won)
		assert.Less(t, result.Multiplier, 100.0)
		assert.Equal(t, int64(-100), result.Winnings)
		assert.Equal(t, int64(900), result.NewBalance)
	})

	t.Run("target must exceed 1.0", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewGamblingService(mocks.AccountRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher, &fixedRandom{})
		_, err := service.Limbo(ctx, TestUser1ID, TestUser1Name, 1.0, entities.StakeOf(100))
		assert.ErrorIs(t, err, entities.ErrInvalidStake)
	})

	t.Run("round always terminates", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		account := NewTestAccount(TestUser1ID, TestUser1Name, 1 << 40)

		helper.ExpectAccountLock(TestUser1ID, account)
		helper.ExpectAccountUpdate()
		helper.ExpectAnyBalanceHistoryRecord()
		helper.ExpectAnyEventPublish()

		rng := rand.New(rand.NewSource(42))
		service := NewGamblingService(mocks.AccountRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher, rng)
		result, err := service.Limbo(ctx, TestUser1ID, TestUser1Name, 2.5, entities.StakeOf(100))
		require.NoError(t, err)

		if result.Won {
			assert.GreaterOrEqual(t, result.Multiplier, 2.5)
		} else {
			assert.GreaterOrEqual(t, result.Multiplier, 1.4)
			assert.Less(t, result.Multiplier, 2.5)
		}
	})
}
