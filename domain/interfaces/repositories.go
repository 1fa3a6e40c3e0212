package interfaces

import (
	"context"

	"chipbot/domain/entities"
	"chipbot/domain/events"
)

// AccountRepository manages economy account persistence. Implementations are
// scoped to a unit of work's transaction; mutating calls must happen between
// Begin and Commit.
type AccountRepository interface {
	// GetByUserID retrieves an account, or nil if none exists
	GetByUserID(ctx context.Context, userID int64) (*entities.Account, error)

	// GetByUserIDForUpdate retrieves an account and locks its row for the
	// remainder of the transaction. This is the per-account serialization
	// point: two concurrent read-modify-write operations on the same
	// account cannot interleave.
	GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.Account, error)

	// Create inserts a new account with the starting balance
	Create(ctx context.Context, userID int64, displayName string, startingBalance int64) (*entities.Account, error)

	// Update persists the full account record
	Update(ctx context.Context, account *entities.Account) error

	// UpdateDisplayName refreshes the last-observed display name
	UpdateDisplayName(ctx context.Context, userID int64, displayName string) error

	// GetTopByBalance returns up to limit accounts ordered by balance descending
	GetTopByBalance(ctx context.Context, limit int) ([]*entities.Account, error)
}

// BalanceHistoryRepository manages the append-only balance audit trail
type BalanceHistoryRepository interface {
	// Record inserts a balance change record
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByUser returns the most recent balance changes for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// Random is the randomness the games draw from. Satisfied by *rand.Rand, so
// tests can supply a seeded source.
type Random interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}
