package services

import (
	"context"
	"fmt"

	"chipbot/config"
	"chipbot/domain/entities"
	"chipbot/domain/interfaces"
	"chipbot/domain/utils"
)

type accountService struct {
	accountRepo interfaces.AccountRepository
	historyRepo interfaces.BalanceHistoryRepository
	publisher   interfaces.EventPublisher
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo interfaces.AccountRepository, historyRepo interfaces.BalanceHistoryRepository, publisher interfaces.EventPublisher) interfaces.AccountService {
	return &accountService{
		accountRepo: accountRepo,
		historyRepo: historyRepo,
		publisher:   publisher,
	}
}

// GetOrCreateAccount retrieves an existing account or creates a new one with
// the configured starting balance. The stored display name is refreshed when
// it has drifted from the caller's current one.
func (s *accountService) GetOrCreateAccount(ctx context.Context, userID int64, displayName string) (*entities.Account, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	if account != nil {
		if displayName != "" && account.DisplayName != displayName {
			if err := s.accountRepo.UpdateDisplayName(ctx, userID, displayName); err != nil {
				return nil, fmt.Errorf("failed to refresh display name: %w", err)
			}
			account.DisplayName = displayName
		}
		return account, nil
	}

	startingBalance := config.Get().StartingBalance
	account, err = s.accountRepo.Create(ctx, userID, displayName, startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if startingBalance != 0 {
		history := &entities.BalanceHistory{
			UserID:          userID,
			BalanceBefore:   0,
			BalanceAfter:    startingBalance,
			ChangeAmount:    startingBalance,
			TransactionType: entities.TransactionTypeInitial,
			TransactionMetadata: map[string]any{
				"display_name": displayName,
			},
		}
		if err := utils.RecordBalanceChange(ctx, s.historyRepo, s.publisher, history); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}

	return account, nil
}

// Transfer moves chips from one account to another. Both row locks are taken
// in ascending user-id order so two opposing transfers cannot deadlock.
func (s *accountService) Transfer(ctx context.Context, fromUserID, toUserID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive: %w", entities.ErrInvalidStake)
	}
	if fromUserID == toUserID {
		return fmt.Errorf("cannot transfer to yourself: %w", entities.ErrIllegalAction)
	}

	first, second := fromUserID, toUserID
	if second < first {
		first, second = second, first
	}

	locked := make(map[int64]*entities.Account, 2)
	for _, id := range []int64{first, second} {
		account, err := s.accountRepo.GetByUserIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to lock account %d: %w", id, err)
		}
		if account == nil {
			return fmt.Errorf("account %d: %w", id, entities.ErrAccountNotFound)
		}
		locked[id] = account
	}

	fromAccount := locked[fromUserID]
	toAccount := locked[toUserID]

	if !fromAccount.CanAfford(amount) {
		return fmt.Errorf("have %d, need %d: %w", fromAccount.Balance, amount, entities.ErrInsufficientFunds)
	}

	fromBefore := fromAccount.Balance
	toBefore := toAccount.Balance
	fromAccount.Balance -= amount
	toAccount.Balance += amount

	if err := s.accountRepo.Update(ctx, fromAccount); err != nil {
		return fmt.Errorf("failed to debit sender: %w", err)
	}
	if err := s.accountRepo.Update(ctx, toAccount); err != nil {
		return fmt.Errorf("failed to credit recipient: %w", err)
	}

	outHistory := &entities.BalanceHistory{
		UserID:          fromUserID,
		BalanceBefore:   fromBefore,
		BalanceAfter:    fromAccount.Balance,
		ChangeAmount:    -amount,
		TransactionType: entities.TransactionTypeTransferOut,
		TransactionMetadata: map[string]any{
			"recipient_user_id": toUserID,
			"transfer_amount":   amount,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.historyRepo, s.publisher, outHistory); err != nil {
		return fmt.Errorf("failed to record sender balance change: %w", err)
	}

	inHistory := &entities.BalanceHistory{
		UserID:          toUserID,
		BalanceBefore:   toBefore,
		BalanceAfter:    toAccount.Balance,
		ChangeAmount:    amount,
		TransactionType: entities.TransactionTypeTransferIn,
		TransactionMetadata: map[string]any{
			"sender_user_id":  fromUserID,
			"transfer_amount": amount,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.historyRepo, s.publisher, inHistory); err != nil {
		return fmt.Errorf("failed to record recipient balance change: %w", err)
	}

	return nil
}

// SetBalance is the owner-only administrative override
func (s *accountService) SetBalance(ctx context.Context, userID int64, displayName string, amount int64) (*entities.Account, error) {
	if amount < 0 {
		return nil, fmt.Errorf("cannot set a negative balance: %w", entities.ErrInvalidStake)
	}

	if _, err := s.GetOrCreateAccount(ctx, userID, displayName); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	before := account.Balance
	account.Balance = amount
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to set balance: %w", err)
	}

	if amount != before {
		history := &entities.BalanceHistory{
			UserID:          userID,
			BalanceBefore:   before,
			BalanceAfter:    amount,
			ChangeAmount:    amount - before,
			TransactionType: entities.TransactionTypeAdminSet,
		}
		if err := utils.RecordBalanceChange(ctx, s.historyRepo, s.publisher, history); err != nil {
			return nil, fmt.Errorf("failed to record balance override: %w", err)
		}
	}

	return account, nil
}

// Leaderboard returns the top accounts ordered by balance descending
func (s *accountService) Leaderboard(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	accounts, err := s.accountRepo.GetTopByBalance(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]entities.LeaderboardEntry, 0, len(accounts))
	for _, account := range accounts {
		entries = append(entries, entities.LeaderboardEntry{
			DisplayName: account.DisplayName,
			Balance:     account.Balance,
		})
	}
	return entries, nil
}
