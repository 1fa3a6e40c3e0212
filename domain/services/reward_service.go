package services

import (
	"context"
	"fmt"
	"time"

	"chipbot/domain/entities"
	"chipbot/domain/events"
	"chipbot/domain/interfaces"
	"chipbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

type rewardService struct {
	accountRepo interfaces.AccountRepository
	historyRepo interfaces.BalanceHistoryRepository
	publisher   interfaces.EventPublisher
}

// NewRewardService creates a new reward service
func NewRewardService(accountRepo interfaces.AccountRepository, historyRepo interfaces.BalanceHistoryRepository, publisher interfaces.EventPublisher) interfaces.RewardService {
	return &rewardService{
		accountRepo: accountRepo,
		historyRepo: historyRepo,
		publisher:   publisher,
	}
}

// Claim grants a track's reward if the cooldown has elapsed. The eligibility
// check and the grant happen against a locked account row, so two
// near-simultaneous claims cannot both pay out.
func (s *rewardService) Claim(ctx context.Context, track entities.ClaimTrack, userID int64, displayName string, now time.Time) (*entities.ClaimResult, error) {
	account, err := s.accountRepo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	period := track.Period()
	elapsed := now.Sub(account.LastClaim(track))
	if elapsed < period {
		return nil, &entities.NotEligibleError{
			Track:     track,
			Remaining: period - elapsed,
		}
	}

	chips, lootboxes := track.Reward()
	before := account.Balance
	account.Balance += chips
	account.Lootboxes += lootboxes
	account.SetLastClaim(track, now)

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to grant %s reward: %w", track, err)
	}

	history := &entities.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   before,
		BalanceAfter:    account.Balance,
		ChangeAmount:    chips,
		TransactionType: entities.RewardTransactionType(track),
		TransactionMetadata: map[string]any{
			"lootboxes": lootboxes,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.historyRepo, s.publisher, history); err != nil {
		return nil, fmt.Errorf("failed to record %s reward: %w", track, err)
	}

	if err := s.publisher.Publish(events.RewardClaimedEvent{
		UserID:    userID,
		Track:     track,
		Chips:     chips,
		Lootboxes: lootboxes,
	}); err != nil {
		log.WithError(err).Error("Failed to publish reward claimed event")
	}

	return &entities.ClaimResult{
		Track:      track,
		Granted:    true,
		Chips:      chips,
		Lootboxes:  lootboxes,
		NewBalance: account.Balance,
	}, nil
}
