package utils

import (
	"context"
	"fmt"

	"chipbot/domain/entities"
	"chipbot/domain/events"
	"chipbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange records a balance history entry and emits the matching
// events. This is the single entry point for all balance changes in the
// system; services must not write history rows directly.
func RecordBalanceChange(ctx context.Context, historyRepo interfaces.BalanceHistoryRepository, publisher interfaces.EventPublisher, history *entities.BalanceHistory) error {
	if err := history.Validate(); err != nil {
		return fmt.Errorf("invalid balance change: %w", err)
	}

	if err := historyRepo.Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": history.UserID,
		"type":    history.TransactionType,
		"credit":  history.IsPositiveChange(),
	}).Debug("Recorded balance change")

	event := events.BalanceChangeEvent{
		UserID:          history.UserID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	}
	if err := publisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	if history.TransactionType == entities.TransactionTypeInitial {
		if name, ok := history.TransactionMetadata["display_name"].(string); ok {
			created := events.AccountCreatedEvent{
				UserID:          history.UserID,
				DisplayName:     name,
				StartingBalance: history.BalanceAfter,
			}
			if err := publisher.Publish(created); err != nil {
				log.WithError(err).Error("Failed to publish account created event")
			}
		}
	}

	return nil
}
