package events

import "chipbot/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeRewardClaimed  EventType = "reward_claimed"
	EventTypeLootboxOpened  EventType = "lootbox_opened"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	OldBalance      int64
	NewBalance      int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account creation
type AccountCreatedEvent struct {
	UserID          int64
	DisplayName     string
	StartingBalance int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// RewardClaimedEvent represents a successful timed-reward claim
type RewardClaimedEvent struct {
	UserID    int64
	Track     entities.ClaimTrack
	Chips     int64
	Lootboxes int64
}

func (e RewardClaimedEvent) Type() EventType {
	return EventTypeRewardClaimed
}

// LootboxOpenedEvent represents a lootbox being opened
type LootboxOpenedEvent struct {
	UserID int64
	ItemID int64
}

func (e LootboxOpenedEvent) Type() EventType {
	return EventTypeLootboxOpened
}
