package entities

import (
	"time"
)

// NeverClaimed is the sentinel timestamp for reward tracks that have never
// been claimed. It sits far enough in the past that the first claim on any
// track is always eligible.
var NeverClaimed = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// Account represents a user's economy ledger entry. Accounts are keyed by the
// external user ID and shared across guilds.
type Account struct {
	UserID      int64     `db:"user_id"`
	DisplayName string    `db:"display_name"`
	Balance     int64     `db:"balance"`
	LastDaily   time.Time `db:"last_daily"`
	LastWeekly  time.Time `db:"last_weekly"`
	LastMonthly time.Time `db:"last_monthly"`
	Lootboxes   int64     `db:"lootboxes"`
	Inventory   []int64   `db:"inventory"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// CanAfford checks if the account has sufficient balance for an amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// HasLootboxes checks if the account has at least one unopened lootbox
func (a *Account) HasLootboxes() bool {
	return a.Lootboxes > 0
}

// LastClaim returns the stored claim timestamp for a reward track
func (a *Account) LastClaim(track ClaimTrack) time.Time {
	switch track {
	case ClaimTrackDaily:
		return a.LastDaily
	case ClaimTrackWeekly:
		return a.LastWeekly
	case ClaimTrackMonthly:
		return a.LastMonthly
	default:
		return NeverClaimed
	}
}

// SetLastClaim updates the stored claim timestamp for a reward track
func (a *Account) SetLastClaim(track ClaimTrack, t time.Time) {
	switch track {
	case ClaimTrackDaily:
		a.LastDaily = t
	case ClaimTrackWeekly:
		a.LastWeekly = t
	case ClaimTrackMonthly:
		a.LastMonthly = t
	}
}
