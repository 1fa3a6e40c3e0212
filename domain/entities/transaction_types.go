package entities

// TransactionType categorizes a balance change
type TransactionType string

const (
	TransactionTypeInitial       TransactionType = "initial"
	TransactionTypeDailyReward   TransactionType = "daily_reward"
	TransactionTypeWeeklyReward  TransactionType = "weekly_reward"
	TransactionTypeMonthlyReward TransactionType = "monthly_reward"
	TransactionTypeTransferIn    TransactionType = "transfer_in"
	TransactionTypeTransferOut   TransactionType = "transfer_out"
	TransactionTypePurchase      TransactionType = "purchase"
	TransactionTypeCoinflipWin   TransactionType = "coinflip_win"
	TransactionTypeCoinflipLoss  TransactionType = "coinflip_loss"
	TransactionTypeLimboWin      TransactionType = "limbo_win"
	TransactionTypeLimboLoss     TransactionType = "limbo_loss"
	TransactionTypeBlackjackBet  TransactionType = "blackjack_bet"
	TransactionTypeBlackjackWin  TransactionType = "blackjack_win"
	TransactionTypeBlackjackPush TransactionType = "blackjack_push"
	TransactionTypeAdminSet      TransactionType = "admin_set"
)

// RewardTransactionType maps a claim track onto its transaction type
func RewardTransactionType(track ClaimTrack) TransactionType {
	switch track {
	case ClaimTrackWeekly:
		return TransactionTypeWeeklyReward
	case ClaimTrackMonthly:
		return TransactionTypeMonthlyReward
	default:
		return TransactionTypeDailyReward
	}
}

// IsWinType returns true for transaction types credited by a winning wager
func (t TransactionType) IsWinType() bool {
	switch t {
	case TransactionTypeCoinflipWin, TransactionTypeLimboWin, TransactionTypeBlackjackWin:
		return true
	}
	return false
}

// IsRewardType returns true for timed-reward grants
func (t TransactionType) IsRewardType() bool {
	switch t {
	case TransactionTypeDailyReward, TransactionTypeWeeklyReward, TransactionTypeMonthlyReward:
		return true
	}
	return false
}

// IsTransferType returns true for user-to-user transfers
func (t TransactionType) IsTransferType() bool {
	return t == TransactionTypeTransferIn || t == TransactionTypeTransferOut
}
