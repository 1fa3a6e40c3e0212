package interfaces

import (
	"context"
	"time"

	"chipbot/domain/entities"
)

// AccountService manages account lifecycle and direct balance operations
type AccountService interface {
	// GetOrCreateAccount fetches an account, creating it lazily on first
	// interaction and refreshing the stored display name
	GetOrCreateAccount(ctx context.Context, userID int64, displayName string) (*entities.Account, error)

	// Transfer moves chips between two accounts atomically
	Transfer(ctx context.Context, fromUserID, toUserID int64, amount int64) error

	// SetBalance is the administrative balance override
	SetBalance(ctx context.Context, userID int64, displayName string, amount int64) (*entities.Account, error)

	// Leaderboard returns the top accounts by balance
	Leaderboard(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)
}

// RewardService evaluates and grants timed reward claims
type RewardService interface {
	// Claim grants the track's reward if the cooldown has elapsed, or
	// returns a NotEligibleError carrying the remaining duration
	Claim(ctx context.Context, track entities.ClaimTrack, userID int64, displayName string, now time.Time) (*entities.ClaimResult, error)
}

// ShopService covers lootbox and shop operations
type ShopService interface {
	OpenLootbox(ctx context.Context, userID int64, displayName string) (*entities.LootboxResult, error)
	BuyItem(ctx context.Context, userID int64, displayName string, itemID int64) (*entities.PurchaseResult, error)
	ListInventory(ctx context.Context, userID int64, displayName string) ([]entities.InventoryGroup, error)
	LootboxCount(ctx context.Context, userID int64) (int64, error)
}

// GamblingService runs the single-interaction wagering games
type GamblingService interface {
	Coinflip(ctx context.Context, userID int64, displayName string, stake entities.Stake) (*entities.FlipResult, error)
	Limbo(ctx context.Context, userID int64, displayName string, target float64, stake entities.Stake) (*entities.LimboResult, error)
}
