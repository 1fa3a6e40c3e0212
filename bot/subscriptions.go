package bot

import (
	"context"

	log "github.com/sirupsen/logrus"

	"chipbot/domain/entities"
	"chipbot/domain/events"
)

// transactionCategory groups transaction types for the balance change log
func transactionCategory(t entities.TransactionType) string {
	switch {
	case t.IsWinType():
		return "win"
	case t.IsRewardType():
		return "reward"
	case t.IsTransferType():
		return "transfer"
	default:
		return "other"
	}
}

// RegisterBotSubscriptions wires the bot-level event handlers onto the bus.
// These fire after the transaction that produced the event has committed.
func RegisterBotSubscriptions(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, logBalanceChange)
	bus.Subscribe(events.EventTypeAccountCreated, logAccountCreated)
	bus.Subscribe(events.EventTypeRewardClaimed, logRewardClaimed)
	bus.Subscribe(events.EventTypeLootboxOpened, logLootboxOpened)

	log.Info("Bot event subscriptions registered")
}

func logBalanceChange(ctx context.Context, event events.Event) {
	e, ok := event.(events.BalanceChangeEvent)
	if !ok {
		log.Errorf("Received non-BalanceChangeEvent in balance change handler: %T", event)
		return
	}

	log.WithFields(log.Fields{
		"user_id":          e.UserID,
		"old_balance":      e.OldBalance,
		"new_balance":      e.NewBalance,
		"change_amount":    e.ChangeAmount,
		"transaction_type": e.TransactionType,
		"category":         transactionCategory(e.TransactionType),
	}).Info("Balance changed")
}

func logAccountCreated(ctx context.Context, event events.Event) {
	e, ok := event.(events.AccountCreatedEvent)
	if !ok {
		log.Errorf("Received non-AccountCreatedEvent in account created handler: %T", event)
		return
	}

	log.WithFields(log.Fields{
		"user_id":          e.UserID,
		"display_name":     e.DisplayName,
		"starting_balance": e.StartingBalance,
	}).Info("Account created")
}

func logRewardClaimed(ctx context.Context, event events.Event) {
	e, ok := event.(events.RewardClaimedEvent)
	if !ok {
		log.Errorf("Received non-RewardClaimedEvent in reward claimed handler: %T", event)
		return
	}

	log.WithFields(log.Fields{
		"user_id":   e.UserID,
		"track":     e.Track,
		"chips":     e.Chips,
		"lootboxes": e.Lootboxes,
	}).Info("Reward claimed")
}

func logLootboxOpened(ctx context.Context, event events.Event) {
	e, ok := event.(events.LootboxOpenedEvent)
	if !ok {
		log.Errorf("Received non-LootboxOpenedEvent in lootbox opened handler: %T", event)
		return
	}

	log.WithFields(log.Fields{
		"user_id": e.UserID,
		"item_id": e.ItemID,
	}).Info("Lootbox opened")
}
