package application

import (
	"context"

	"chipbot/domain/interfaces"
)

// UnitOfWork bundles the repositories behind one database transaction.
// Events published through EventBus are held until Commit and discarded on
// Rollback.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() interfaces.AccountRepository
	BalanceHistoryRepository() interfaces.BalanceHistoryRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
