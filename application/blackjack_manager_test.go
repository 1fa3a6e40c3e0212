package application

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chipbot/config"
	"chipbot/domain/entities"
	"chipbot/domain/events"
	"chipbot/domain/interfaces"
	"chipbot/domain/services"
)

// memoryAccountRepo is an in-memory AccountRepository for exercising the
// manager's money flow without a database.
type memoryAccountRepo struct {
	accounts map[int64]*entities.Account
	// failGets makes the next N lookups fail, standing in for a database
	// outage mid-settlement
	failGets int
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: make(map[int64]*entities.Account)}
}

func (r *memoryAccountRepo) GetByUserID(ctx context.Context, userID int64) (*entities.Account, error) {
	if r.failGets > 0 {
		r.failGets--
		return nil, errors.New("database unavailable")
	}
	account, ok := r.accounts[userID]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (r *memoryAccountRepo) GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.Account, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *memoryAccountRepo) Create(ctx context.Context, userID int64, displayName string, startingBalance int64) (*entities.Account, error) {
	account := &entities.Account{
		UserID:      userID,
		DisplayName: displayName,
		Balance:     startingBalance,
		LastDaily:   entities.NeverClaimed,
		LastWeekly:  entities.NeverClaimed,
		LastMonthly: entities.NeverClaimed,
	}
	r.accounts[userID] = account
	copied := *account
	return &copied, nil
}

func (r *memoryAccountRepo) Update(ctx context.Context, account *entities.Account) error {
	copied := *account
	r.accounts[account.UserID] = &copied
	return nil
}

func (r *memoryAccountRepo) UpdateDisplayName(ctx context.Context, userID int64, displayName string) error {
	if account, ok := r.accounts[userID]; ok {
		account.DisplayName = displayName
	}
	return nil
}

func (r *memoryAccountRepo) GetTopByBalance(ctx context.Context, limit int) ([]*entities.Account, error) {
	return nil, nil
}

type memoryHistoryRepo struct {
	records []*entities.BalanceHistory
}

func (r *memoryHistoryRepo) Record(ctx context.Context, history *entities.BalanceHistory) error {
	r.records = append(r.records, history)
	return nil
}

func (r *memoryHistoryRepo) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error) {
	return r.records, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(event events.Event) error { return nil }

// memoryUow hands out the shared in-memory repositories. Begin, Commit and
// Rollback are no-ops; the manager's failure paths all bail out before
// mutating, which is what these tests rely on.
type memoryUow struct {
	accounts *memoryAccountRepo
	history  *memoryHistoryRepo
}

func (u *memoryUow) Begin(ctx context.Context) error { return nil }
func (u *memoryUow) Commit() error                   { return nil }
func (u *memoryUow) Rollback() error                 { return nil }

func (u *memoryUow) AccountRepository() interfaces.AccountRepository {
	return u.accounts
}

func (u *memoryUow) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.history
}

func (u *memoryUow) EventBus() interfaces.EventPublisher {
	return nopPublisher{}
}

type memoryUowFactory struct {
	uow *memoryUow
}

func (f *memoryUowFactory) Create() UnitOfWork { return f.uow }

// gateUow parks the first Begin until released; later Begins pass straight
// through. It stands in for a slow settlement transaction.
type gateUow struct {
	*memoryUow
	claimed atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGateUow(inner *memoryUow) *gateUow {
	return &gateUow{
		memoryUow: inner,
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
}

func (u *gateUow) Begin(ctx context.Context) error {
	if u.claimed.CompareAndSwap(false, true) {
		close(u.entered)
		<-u.release
	}
	return nil
}

type gateUowFactory struct {
	uow *gateUow
}

func (f *gateUowFactory) Create() UnitOfWork { return f.uow }

func setupManager(t *testing.T, balances map[int64]int64) (*BlackjackManager, *memoryAccountRepo, *memoryHistoryRepo) {
	t.Helper()
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	accounts := newMemoryAccountRepo()
	for userID, balance := range balances {
		accounts.accounts[userID] = &entities.Account{
			UserID:      userID,
			DisplayName: "player",
			Balance:     balance,
			LastDaily:   entities.NeverClaimed,
			LastWeekly:  entities.NeverClaimed,
			LastMonthly: entities.NeverClaimed,
		}
	}
	history := &memoryHistoryRepo{}
	factory := &memoryUowFactory{uow: &memoryUow{accounts: accounts, history: history}}
	manager := NewBlackjackManager(factory, rand.New(rand.NewSource(1)))
	return manager, accounts, history
}

func TestBlackjackManager_StartSession(t *testing.T) {
	ctx := context.Background()

	t.Run("debits the stake and registers the session", func(t *testing.T) {
		manager, accounts, history := setupManager(t, map[int64]int64{100: 1000})

		session, newBalance, err := manager.StartSession(ctx, 100, "player", 250)
		require.NoError(t, err)
		assert.Equal(t, int64(750), newBalance)
		assert.Equal(t, int64(750), accounts.accounts[100].Balance)
		assert.Len(t, session.PlayerHand, 2)
		assert.Len(t, session.DealerHand, 1)

		require.Len(t, history.records, 1)
		assert.Equal(t, entities.TransactionTypeBlackjackBet, history.records[0].TransactionType)
		assert.Equal(t, int64(-250), history.records[0].ChangeAmount)

		_, ok := manager.Session(100)
		assert.True(t, ok)
	})

	t.Run("rejects a non-positive bet", func(t *testing.T) {
		manager, _, _ := setupManager(t, map[int64]int64{100: 1000})

		_, _, err := manager.StartSession(ctx, 100, "player", 0)
		assert.True(t, errors.Is(err, entities.ErrInvalidStake))
	})

	t.Run("rejects a bet above the balance", func(t *testing.T) {
		manager, accounts, _ := setupManager(t, map[int64]int64{100: 50})

		_, _, err := manager.StartSession(ctx, 100, "player", 100)
		assert.True(t, errors.Is(err, entities.ErrInsufficientFunds))
		assert.Equal(t, int64(50), accounts.accounts[100].Balance)

		_, ok := manager.Session(100)
		assert.False(t, ok)
	})

	t.Run("rejects a second session while one is live", func(t *testing.T) {
		manager, _, _ := setupManager(t, map[int64]int64{100: 1000})

		_, _, err := manager.StartSession(ctx, 100, "player", 100)
		require.NoError(t, err)

		_, _, err = manager.StartSession(ctx, 100, "player", 100)
		assert.True(t, errors.Is(err, entities.ErrIllegalAction))
	})

	t.Run("replaces an expired session", func(t *testing.T) {
		manager, accounts, _ := setupManager(t, map[int64]int64{100: 1000})

		session, _, err := manager.StartSession(ctx, 100, "player", 100)
		require.NoError(t, err)
		session.LastAction = time.Now().Add(-SessionTimeout - time.Minute)

		_, newBalance, err := manager.StartSession(ctx, 100, "player", 100)
		require.NoError(t, err)
		// Two stakes debited: the forfeited one and the fresh one.
		assert.Equal(t, int64(800), newBalance)
		assert.Equal(t, int64(800), accounts.accounts[100].Balance)
	})

	t.Run("pays out an unsettled session before dealing again", func(t *testing.T) {
		manager, accounts, _ := setupManager(t, map[int64]int64{100: 1000})

		first, afterDebit, err := manager.StartSession(ctx, 100, "player", 100)
		require.NoError(t, err)

		accounts.failGets = 1
		_, err = manager.Act(ctx, 100, services.ActionStand)
		require.Error(t, err)

		second, newBalance, err := manager.StartSession(ctx, 100, "player", 100)
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		// The pending payout lands before the new stake is debited.
		assert.Equal(t, afterDebit+first.TotalPayout()-100, newBalance)
		assert.Equal(t, newBalance, accounts.accounts[100].Balance)
	})
}

func TestBlackjackManager_Act(t *testing.T) {
	ctx := context.Background()

	t.Run("errors without a session", func(t *testing.T) {
		manager, _, _ := setupManager(t, map[int64]int64{100: 1000})

		_, err := manager.Act(ctx, 100, services.ActionHit)
		assert.ErrorIs(t, err, entities.ErrSessionNotFound)
	})

	t.Run("expired session is forfeited on action", func(t *testing.T) {
		manager, _, _ := setupManager(t, map[int64]int64{100: 1000})

		session, _, err := manager.StartSession(ctx, 100, "player", 100)
		require.NoError(t, err)
		session.LastAction = time.Now().Add(-SessionTimeout - time.Minute)

		_, err = manager.Act(ctx, 100, services.ActionStand)
		assert.ErrorIs(t, err, entities.ErrSessionExpired)

		_, ok := manager.Session(100)
		assert.False(t, ok)
	})

	t.Run("standing settles the session and credits the payout", func(t *testing.T) {
		manager, accounts, _ := setupManager(t, map[int64]int64{100: 1000})

		session, afterDebit, err := manager.StartSession(ctx, 100, "player", 100)
		require.NoError(t, err)
		require.Equal(t, int64(900), afterDebit)

		result, err := manager.Act(ctx, 100, services.ActionStand)
		require.NoError(t, err)
		require.True(t, result.Settled)
		assert.Equal(t, services.PhaseResolved, session.Phase)

		// Whatever the cards said, the credited payout and the final
		// balance must agree.
		assert.Equal(t, afterDebit+session.TotalPayout(), result.NewBalance)
		assert.Equal(t, result.NewBalance, accounts.accounts[100].Balance)

		_, ok := manager.Session(100)
		assert.False(t, ok)
	})

	t.Run("double without funds for the extra stake", func(t *testing.T) {
		manager, _, _ := setupManager(t, map[int64]int64{100: 150})

		_, _, err := manager.StartSession(ctx, 100, "player", 100)
		require.NoError(t, err)

		_, err = manager.Act(ctx, 100, services.ActionDouble)
		assert.True(t, errors.Is(err, entities.ErrInsufficientFunds))

		// The session survives a refused double.
		_, ok := manager.Session(100)
		assert.True(t, ok)
	})

	t.Run("unknown action is illegal", func(t *testing.T) {
		manager, _, _ := setupManager(t, map[int64]int64{100: 1000})

		_, _, err := manager.StartSession(ctx, 100, "player", 100)
		require.NoError(t, err)

		_, err = manager.Act(ctx, 100, services.BlackjackAction("fold"))
		assert.ErrorIs(t, err, entities.ErrIllegalAction)
	})

	t.Run("failed settlement is retried on the next action", func(t *testing.T) {
		manager, accounts, _ := setupManager(t, map[int64]int64{100: 1000})

		session, afterDebit, err := manager.StartSession(ctx, 100, "player", 100)
		require.NoError(t, err)

		accounts.failGets = 1
		_, err = manager.Act(ctx, 100, services.ActionStand)
		require.Error(t, err)
		require.Equal(t, services.PhaseResolved, session.Phase)

		// The resolved session stays registered so the payout is not lost.
		_, ok := manager.Session(100)
		require.True(t, ok)

		result, err := manager.Act(ctx, 100, services.ActionStand)
		require.NoError(t, err)
		require.True(t, result.Settled)
		assert.Equal(t, afterDebit+session.TotalPayout(), result.NewBalance)
		assert.Equal(t, result.NewBalance, accounts.accounts[100].Balance)

		_, ok = manager.Session(100)
		assert.False(t, ok)
	})
}

func TestBlackjackManager_SettlementDoesNotBlockOtherPlayers(t *testing.T) {
	ctx := context.Background()
	manager, accounts, history := setupManager(t, map[int64]int64{100: 1000, 200: 1000})

	_, _, err := manager.StartSession(ctx, 100, "player", 100)
	require.NoError(t, err)
	otherSession, otherAfterDebit, err := manager.StartSession(ctx, 200, "gambler", 100)
	require.NoError(t, err)

	gate := newGateUow(&memoryUow{accounts: accounts, history: history})
	manager.uowFactory = &gateUowFactory{uow: gate}

	firstDone := make(chan error, 1)
	go func() {
		_, err := manager.Act(ctx, 100, services.ActionStand)
		firstDone <- err
	}()

	// Wait until the first player's settlement transaction is in flight.
	<-gate.entered

	type actReply struct {
		result *ActResult
		err    error
	}
	otherDone := make(chan actReply, 1)
	go func() {
		result, err := manager.Act(ctx, 200, services.ActionStand)
		otherDone <- actReply{result: result, err: err}
	}()

	select {
	case reply := <-otherDone:
		require.NoError(t, reply.err)
		require.True(t, reply.result.Settled)
		assert.Equal(t, otherAfterDebit+otherSession.TotalPayout(), reply.result.NewBalance)
	case <-time.After(2 * time.Second):
		t.Fatal("second player's action blocked behind the first player's settlement")
	}

	close(gate.release)
	require.NoError(t, <-firstDone)
}
