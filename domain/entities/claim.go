package entities

import "time"

// ClaimTrack identifies one of the independent timed-reward tracks
type ClaimTrack string

const (
	ClaimTrackDaily   ClaimTrack = "daily"
	ClaimTrackWeekly  ClaimTrack = "weekly"
	ClaimTrackMonthly ClaimTrack = "monthly"
)

// Period returns the cooldown between claims on this track
func (t ClaimTrack) Period() time.Duration {
	switch t {
	case ClaimTrackDaily:
		return 24 * time.Hour
	case ClaimTrackWeekly:
		return 7 * 24 * time.Hour
	case ClaimTrackMonthly:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Reward returns the chips and lootboxes granted by a claim on this track
func (t ClaimTrack) Reward() (chips int64, lootboxes int64) {
	switch t {
	case ClaimTrackDaily:
		return 500, 1
	case ClaimTrackWeekly:
		return 5000, 3
	case ClaimTrackMonthly:
		return 100000, 5
	default:
		return 0, 0
	}
}

// ClaimResult reports the outcome of a reward claim
type ClaimResult struct {
	Track      ClaimTrack
	Granted    bool
	Chips      int64
	Lootboxes  int64
	NewBalance int64
	// Remaining is set when the claim was not granted
	Remaining time.Duration
}
