package entities

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for validated economy operations. All of them are
// recoverable at the call site; the presentation layer translates them into
// user-facing messages.
var (
	ErrInvalidStake      = errors.New("stake must be a positive amount or 'all'")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrItemNotFound      = errors.New("item not found in shop")
	ErrNoLootboxes       = errors.New("no lootboxes to open")
	ErrAccountNotFound   = errors.New("account not found")
	ErrIllegalAction     = errors.New("action not allowed in this state")
	ErrSessionNotFound   = errors.New("no active session")
	ErrSessionExpired    = errors.New("session expired")
	ErrNotSessionOwner   = errors.New("session belongs to another player")
)

// NotEligibleError is returned when a reward claim is on cooldown. It carries
// the time remaining until the next eligible claim.
type NotEligibleError struct {
	Track     ClaimTrack
	Remaining time.Duration
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("%s reward on cooldown for %s", e.Track, e.Remaining)
}

// AsNotEligible unwraps err into a NotEligibleError if it is one
func AsNotEligible(err error) (*NotEligibleError, bool) {
	var ne *NotEligibleError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}
