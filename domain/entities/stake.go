package entities

import (
	"strconv"
	"strings"
)

// Stake is a wager amount as entered by the player: either an explicit chip
// count or the "all" sentinel, which resolves to the full balance at the
// moment the wager executes.
type Stake struct {
	all    bool
	amount int64
}

// StakeOf returns an explicit stake
func StakeOf(amount int64) Stake {
	return Stake{amount: amount}
}

// StakeAll returns the all-in stake
func StakeAll() Stake {
	return Stake{all: true}
}

// ParseStake parses user input into a stake. Accepts a base-10 integer or the
// word "all" (case-insensitive).
func ParseStake(input string) (Stake, error) {
	if strings.EqualFold(strings.TrimSpace(input), "all") {
		return StakeAll(), nil
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return Stake{}, ErrInvalidStake
	}
	return StakeOf(amount), nil
}

// IsAll reports whether this is the all-in sentinel
func (s Stake) IsAll() bool {
	return s.all
}

// Resolve converts the stake into a concrete amount against a balance.
// Returns ErrInvalidStake for a non-positive result and ErrInsufficientFunds
// when the balance cannot cover it.
func (s Stake) Resolve(balance int64) (int64, error) {
	amount := s.amount
	if s.all {
		amount = balance
	}
	if amount <= 0 {
		return 0, ErrInvalidStake
	}
	if amount > balance {
		return 0, ErrInsufficientFunds
	}
	return amount, nil
}
