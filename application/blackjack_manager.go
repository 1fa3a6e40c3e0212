package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chipbot/domain/entities"
	"chipbot/domain/interfaces"
	"chipbot/domain/services"
	"chipbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

const (
	// SessionTimeout is how long a blackjack session may sit without a
	// player action before the stake is forfeited
	SessionTimeout = 5 * time.Minute

	sessionSweepInterval = 30 * time.Second
)

// ActResult reports the session state after a player action, plus the
// settled balance when the action resolved the hand.
type ActResult struct {
	Session    *services.BlackjackSession
	Settled    bool
	NewBalance int64
}

// sessionEntry serializes everything that happens to one user's session.
// Ledger transactions run under the entry lock, never under the manager
// lock, so one player's database round-trip cannot stall another player.
type sessionEntry struct {
	mu      sync.Mutex
	session *services.BlackjackSession
}

// BlackjackManager owns the live blackjack sessions. The stake is debited
// when a session starts and winnings are credited when it resolves; each of
// those is its own ledger transaction, so no database lock is held while the
// player thinks. Sessions are keyed by the initiating user, who is the only
// one allowed to act. The manager lock guards only the entry map.
type BlackjackManager struct {
	uowFactory UnitOfWorkFactory
	rng        interfaces.Random

	mu      sync.Mutex
	entries map[int64]*sessionEntry
}

// NewBlackjackManager creates a new session manager
func NewBlackjackManager(uowFactory UnitOfWorkFactory, rng interfaces.Random) *BlackjackManager {
	return &BlackjackManager{
		uowFactory: uowFactory,
		rng:        rng,
		entries:    make(map[int64]*sessionEntry),
	}
}

func (m *BlackjackManager) entry(userID int64, create bool) (*sessionEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[userID]
	if !ok && create {
		entry = &sessionEntry{}
		m.entries[userID] = entry
		ok = true
	}
	return entry, ok
}

// removeIfEmpty drops the map slot once the entry carries no session.
// Callers hold the entry lock, so a concurrent waiter that still has the
// entry pointer will see the nil session and report no session.
func (m *BlackjackManager) removeIfEmpty(userID int64, entry *sessionEntry) {
	m.mu.Lock()
	if m.entries[userID] == entry && entry.session == nil {
		delete(m.entries, userID)
	}
	m.mu.Unlock()
}

// StartSession validates and debits the stake, deals the opening hands, and
// registers the session. Returns the session and the balance after the debit.
func (m *BlackjackManager) StartSession(ctx context.Context, userID int64, displayName string, bet int64) (*services.BlackjackSession, int64, error) {
	if bet <= 0 {
		return nil, 0, fmt.Errorf("bet must be positive: %w", entities.ErrInvalidStake)
	}

	entry, _ := m.entry(userID, true)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if existing := entry.session; existing != nil {
		switch {
		case existing.Phase == services.PhaseResolved:
			// A settlement failed earlier; pay it out before dealing again.
			if _, err := m.settle(ctx, existing); err != nil {
				return nil, 0, err
			}
			entry.session = nil
		case !existing.Expired(time.Now(), SessionTimeout):
			return nil, 0, fmt.Errorf("finish your current hand first: %w", entities.ErrIllegalAction)
		default:
			// Timed out: the stake was forfeited when it expired.
			entry.session = nil
		}
	}

	newBalance, err := m.adjustBalance(ctx, userID, displayName, -bet, entities.TransactionTypeBlackjackBet, map[string]any{
		"bet": bet,
	})
	if err != nil {
		m.removeIfEmpty(userID, entry)
		return nil, 0, err
	}

	session := services.NewBlackjackSession(userID, displayName, bet, entities.NewDeck(m.rng), time.Now())
	entry.session = session
	return session, newBalance, nil
}

// Act applies one player action to the user's session. When the action
// resolves the hand, the payout is credited and the session is destroyed.
// A session whose settlement failed stays resolved in the map, and the next
// action retries the payout instead of rejecting it.
func (m *BlackjackManager) Act(ctx context.Context, userID int64, action services.BlackjackAction) (*ActResult, error) {
	entry, ok := m.entry(userID, false)
	if !ok {
		return nil, entities.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session
	if session == nil {
		return nil, entities.ErrSessionNotFound
	}

	now := time.Now()
	if session.Expired(now, SessionTimeout) {
		// The stake stays forfeited; nothing was owed to an idle hand.
		entry.session = nil
		m.removeIfEmpty(userID, entry)
		return nil, entities.ErrSessionExpired
	}

	if session.Phase == services.PhaseResolved {
		return m.settleAndRelease(ctx, userID, entry, session)
	}

	switch action {
	case services.ActionHit:
		if err := session.Hit(now); err != nil {
			return nil, err
		}
	case services.ActionStand:
		if err := session.Stand(now); err != nil {
			return nil, err
		}
	case services.ActionDouble:
		if err := m.commitExtraStake(ctx, session, session.CanDouble); err != nil {
			return nil, err
		}
		if err := session.Double(now); err != nil {
			return nil, err
		}
	case services.ActionSplit:
		if !session.CanSplit() {
			return nil, entities.ErrIllegalAction
		}
		if err := m.commitExtraStake(ctx, session, func(available int64) bool { return available >= session.Bet }); err != nil {
			return nil, err
		}
		if err := session.Split(now); err != nil {
			return nil, err
		}
	default:
		return nil, entities.ErrIllegalAction
	}

	if session.Phase == services.PhaseResolved {
		return m.settleAndRelease(ctx, userID, entry, session)
	}
	return &ActResult{Session: session}, nil
}

// settleAndRelease pays out a resolved session and frees its slot. On
// failure the session stays in place so the payout can be retried.
// Callers hold the entry lock.
func (m *BlackjackManager) settleAndRelease(ctx context.Context, userID int64, entry *sessionEntry, session *services.BlackjackSession) (*ActResult, error) {
	newBalance, err := m.settle(ctx, session)
	if err != nil {
		return nil, err
	}
	entry.session = nil
	m.removeIfEmpty(userID, entry)
	return &ActResult{Session: session, Settled: true, NewBalance: newBalance}, nil
}

// Session returns the user's live session, if any
func (m *BlackjackManager) Session(userID int64) (*services.BlackjackSession, bool) {
	entry, ok := m.entry(userID, false)
	if !ok {
		return nil, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session, entry.session != nil
}

// Start launches the expiry sweeper and returns a stop function
func (m *BlackjackManager) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stopChan:
				return
			case <-ticker.C:
				m.sweepExpired()
			}
		}
	}()

	return func() { close(stopChan) }
}

// sweepExpired forfeits and removes idle sessions. The stake was debited at
// session start, so forfeiture is just destruction. Resolved sessions
// awaiting a settlement retry never count as expired.
func (m *BlackjackManager) sweepExpired() {
	m.mu.Lock()
	snapshot := make(map[int64]*sessionEntry, len(m.entries))
	for userID, entry := range m.entries {
		snapshot[userID] = entry
	}
	m.mu.Unlock()

	now := time.Now()
	for userID, entry := range snapshot {
		entry.mu.Lock()
		if entry.session != nil && entry.session.Expired(now, SessionTimeout) {
			log.WithFields(log.Fields{
				"userID": userID,
				"bet":    entry.session.TotalBet(),
			}).Info("Blackjack session timed out, stake forfeited")
			entry.session = nil
			m.removeIfEmpty(userID, entry)
		}
		entry.mu.Unlock()
	}
}

// commitExtraStake debits a second bet-sized stake for double or split
func (m *BlackjackManager) commitExtraStake(ctx context.Context, session *services.BlackjackSession, allowed func(available int64) bool) error {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByUserIDForUpdate(ctx, session.UserID)
	if err != nil {
		return fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return entities.ErrAccountNotFound
	}
	if !allowed(account.Balance) || !account.CanAfford(session.Bet) {
		return fmt.Errorf("doubling the stake needs %d more: %w", session.Bet, entities.ErrInsufficientFunds)
	}

	before := account.Balance
	account.Balance -= session.Bet
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return fmt.Errorf("failed to debit additional stake: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:          session.UserID,
		BalanceBefore:   before,
		BalanceAfter:    account.Balance,
		ChangeAmount:    -session.Bet,
		TransactionType: entities.TransactionTypeBlackjackBet,
		TransactionMetadata: map[string]any{
			"bet": session.Bet,
		},
	}
	if err := utils.RecordBalanceChange(ctx, uow.BalanceHistoryRepository(), uow.EventBus(), history); err != nil {
		return fmt.Errorf("failed to record additional stake: %w", err)
	}

	return uow.Commit()
}

// settle credits whatever the resolved session pays out
func (m *BlackjackManager) settle(ctx context.Context, session *services.BlackjackSession) (int64, error) {
	payout := session.TotalPayout()
	if payout == 0 {
		uow := m.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return 0, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback()
		account, err := uow.AccountRepository().GetByUserID(ctx, session.UserID)
		if err != nil || account == nil {
			return 0, fmt.Errorf("failed to read balance after loss: %w", err)
		}
		return account.Balance, uow.Commit()
	}

	transactionType := entities.TransactionTypeBlackjackWin
	if payout == session.TotalBet() {
		transactionType = entities.TransactionTypeBlackjackPush
	}
	return m.adjustBalance(ctx, session.UserID, session.DisplayName, payout, transactionType, map[string]any{
		"bet":    session.TotalBet(),
		"payout": payout,
	})
}

// adjustBalance applies one signed balance change inside its own unit of
// work, creating the account first when needed
func (m *BlackjackManager) adjustBalance(ctx context.Context, userID int64, displayName string, change int64, transactionType entities.TransactionType, metadata map[string]any) (int64, error) {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	if _, err := accountService.GetOrCreateAccount(ctx, userID, displayName); err != nil {
		return 0, err
	}

	account, err := uow.AccountRepository().GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock account: %w", err)
	}
	if change < 0 && !account.CanAfford(-change) {
		return 0, fmt.Errorf("bet of %d exceeds balance %d: %w", -change, account.Balance, entities.ErrInsufficientFunds)
	}

	before := account.Balance
	account.Balance += change
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return 0, fmt.Errorf("failed to apply balance change: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:              userID,
		BalanceBefore:       before,
		BalanceAfter:        account.Balance,
		ChangeAmount:        change,
		TransactionType:     transactionType,
		TransactionMetadata: metadata,
	}
	if err := utils.RecordBalanceChange(ctx, uow.BalanceHistoryRepository(), uow.EventBus(), history); err != nil {
		return 0, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return account.Balance, nil
}
