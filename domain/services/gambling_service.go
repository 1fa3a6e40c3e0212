package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"chipbot/domain/entities"
	"chipbot/domain/interfaces"
	"chipbot/domain/utils"
)

const (
	// limboStart is the multiplier a limbo round begins at
	limboStart = 1.11
	// limboCrashCeiling forces the round to stop once the running
	// multiplier reaches it
	limboCrashCeiling = 1.4
)

// limboCandidates are the per-step multipliers, 1.01 through 10.00 in 0.01
// steps, each weighted inversely to its own value so small jumps dominate.
// cumWeights[i] is the cumulative weight through candidate i, used for the
// weighted draw.
var (
	limboCandidates []float64
	limboCumWeights []float64
)

func init() {
	for i := 0; i < 900; i++ {
		candidate := math.Round((1.01+0.01*float64(i))*100) / 100
		limboCandidates = append(limboCandidates, candidate)
		weight := 1 / candidate
		if len(limboCumWeights) > 0 {
			weight += limboCumWeights[len(limboCumWeights)-1]
		}
		limboCumWeights = append(limboCumWeights, weight)
	}
}

type gamblingService struct {
	accountRepo interfaces.AccountRepository
	historyRepo interfaces.BalanceHistoryRepository
	publisher   interfaces.EventPublisher
	rng         interfaces.Random
}

// NewGamblingService creates a new gambling service
func NewGamblingService(accountRepo interfaces.AccountRepository, historyRepo interfaces.BalanceHistoryRepository, publisher interfaces.EventPublisher, rng interfaces.Random) interfaces.GamblingService {
	return &gamblingService{
		accountRepo: accountRepo,
		historyRepo: historyRepo,
		publisher:   publisher,
		rng:         rng,
	}
}

// Coinflip resolves a fair coin wager: heads wins the stake, tails loses it
func (s *gamblingService) Coinflip(ctx context.Context, userID int64, displayName string, stake entities.Stake) (*entities.FlipResult, error) {
	account, err := s.accountRepo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	amount, err := stake.Resolve(account.Balance)
	if err != nil {
		return nil, err
	}

	heads := s.rng.Intn(2) == 0

	before := account.Balance
	change := amount
	transactionType := entities.TransactionTypeCoinflipWin
	if !heads {
		change = -amount
		transactionType = entities.TransactionTypeCoinflipLoss
	}
	account.Balance += change

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to settle coinflip: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   before,
		BalanceAfter:    account.Balance,
		ChangeAmount:    change,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"stake": amount,
			"heads": heads,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.historyRepo, s.publisher, history); err != nil {
		return nil, fmt.Errorf("failed to record coinflip: %w", err)
	}

	return &entities.FlipResult{
		Heads:      heads,
		Won:        heads,
		Stake:      amount,
		NewBalance: account.Balance,
	}, nil
}

// Limbo simulates the crash multiplier: starting at 1.11, the running value
// is repeatedly multiplied by a weighted draw until it reaches the 1.4
// ceiling. The wager wins iff the running value reaches the player's target
// first. The simulated loop never touches the ledger; the single net change
// is applied at the end.
func (s *gamblingService) Limbo(ctx context.Context, userID int64, displayName string, target float64, stake entities.Stake) (*entities.LimboResult, error) {
	if target <= 1.0 {
		return nil, fmt.Errorf("target multiplier must exceed 1.0: %w", entities.ErrInvalidStake)
	}

	account, err := s.accountRepo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	amount, err := stake.Resolve(account.Balance)
	if err != nil {
		return nil, err
	}

	multiplier := limboStart
	won := multiplier >= target
	for !won && multiplier < limboCrashCeiling {
		multiplier *= s.drawMultiplier()
		if multiplier >= target {
			won = true
		}
	}

	before := account.Balance
	var change int64
	transactionType := entities.TransactionTypeLimboLoss
	if won {
		payout := int64(float64(amount) * target)
		change = payout - amount
		transactionType = entities.TransactionTypeLimboWin
	} else {
		change = -amount
	}
	account.Balance += change

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to settle limbo: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   before,
		BalanceAfter:    account.Balance,
		ChangeAmount:    change,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"stake":      amount,
			"target":     target,
			"multiplier": multiplier,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.historyRepo, s.publisher, history); err != nil {
		return nil, fmt.Errorf("failed to record limbo: %w", err)
	}

	return &entities.LimboResult{
		Won:        won,
		Target:     target,
		Multiplier: multiplier,
		Stake:      amount,
		Winnings:   change,
		NewBalance: account.Balance,
	}, nil
}

// drawMultiplier picks one candidate with probability proportional to 1/value
func (s *gamblingService) drawMultiplier() float64 {
	total := limboCumWeights[len(limboCumWeights)-1]
	r := s.rng.Float64() * total
	i := sort.SearchFloat64s(limboCumWeights, r)
	if i >= len(limboCandidates) {
		i = len(limboCandidates) - 1
	}
	return limboCandidates[i]
}
