package services

import (
	"time"

	"chipbot/domain/entities"
)

// BlackjackPhase is the lifecycle stage of a blackjack session
type BlackjackPhase string

const (
	PhaseDealing    BlackjackPhase = "dealing"
	PhasePlayerTurn BlackjackPhase = "player_turn"
	PhaseDealerTurn BlackjackPhase = "dealer_turn"
	PhaseResolved   BlackjackPhase = "resolved"
)

// BlackjackAction is one of the moves a player can make on their turn
type BlackjackAction string

const (
	ActionHit    BlackjackAction = "hit"
	ActionStand  BlackjackAction = "stand"
	ActionDouble BlackjackAction = "double"
	ActionSplit  BlackjackAction = "split"
)

// HandOutcome is the per-hand result after resolution
type HandOutcome string

const (
	OutcomeWin  HandOutcome = "win"
	OutcomeLoss HandOutcome = "loss"
	OutcomePush HandOutcome = "push"
)

// HandResult pairs a finished hand with its outcome and the amount credited
// back for it. A win credits the bet plus winnings, a push credits exactly
// the bet, a loss credits nothing.
type HandResult struct {
	Hand    entities.Hand
	Bet     int64
	Outcome HandOutcome
	Payout  int64
}

// BlackjackSession is the state of one interactive blackjack hand. The stake
// is debited before the session exists; the session itself never touches the
// ledger. Only the initiating user may act on it, and access is serialized
// by the session manager, so the session needs no internal locking.
type BlackjackSession struct {
	UserID      int64
	DisplayName string

	deck       *entities.Deck
	PlayerHand entities.Hand
	SplitHand  entities.Hand
	DealerHand entities.Hand

	Bet      int64
	SplitBet int64

	Phase BlackjackPhase
	// natural is set when the opening deal is a two-card 21. Only that
	// hand earns the 3:2 bonus; a two-card 21 built after a split wins
	// even money.
	natural bool
	// activeHand is 0 for the main hand, 1 for the split hand
	activeHand int
	// acted is set after the first player action; split and double are
	// only legal before it
	acted bool

	LastAction time.Time
	results    []HandResult
}

// NewBlackjackSession deals the opening hands: two cards to the player, one
// to the dealer. The dealer's second card is drawn during the dealer turn.
func NewBlackjackSession(userID int64, displayName string, bet int64, deck *entities.Deck, now time.Time) *BlackjackSession {
	s := &BlackjackSession{
		UserID:      userID,
		DisplayName: displayName,
		deck:        deck,
		Bet:         bet,
		Phase:       PhaseDealing,
		LastAction:  now,
	}
	s.PlayerHand = append(s.PlayerHand, deck.Deal(), deck.Deal())
	s.DealerHand = append(s.DealerHand, deck.Deal())
	s.natural = s.PlayerHand.IsBlackjack()
	s.Phase = PhasePlayerTurn
	return s
}

// CanSplit reports whether split is currently legal: first action, two cards
// of the same rank
func (s *BlackjackSession) CanSplit() bool {
	return s.Phase == PhasePlayerTurn && !s.acted &&
		len(s.PlayerHand) == 2 && s.PlayerHand[0].Rank == s.PlayerHand[1].Rank
}

// CanDouble reports whether double is currently legal, given the balance
// available to cover the additional stake
func (s *BlackjackSession) CanDouble(availableBalance int64) bool {
	return s.Phase == PhasePlayerTurn && !s.acted && availableBalance >= s.Bet
}

// ActiveHand returns the hand the next action applies to
func (s *BlackjackSession) ActiveHand() entities.Hand {
	if s.activeHand == 1 {
		return s.SplitHand
	}
	return s.PlayerHand
}

// ActiveHandIndex is 0 for the main hand, 1 for the split hand
func (s *BlackjackSession) ActiveHandIndex() int {
	return s.activeHand
}

// HasSplit reports whether the session holds a second hand
func (s *BlackjackSession) HasSplit() bool {
	return len(s.SplitHand) > 0
}

// Hit draws one card into the active hand. A busted hand ends that hand's
// play; when no playable hand remains the session resolves.
func (s *BlackjackSession) Hit(now time.Time) error {
	if s.Phase != PhasePlayerTurn {
		return entities.ErrIllegalAction
	}
	s.acted = true
	s.LastAction = now

	card := s.deck.Deal()
	if s.activeHand == 1 {
		s.SplitHand = append(s.SplitHand, card)
	} else {
		s.PlayerHand = append(s.PlayerHand, card)
	}

	if s.ActiveHand().IsBust() {
		s.advanceHand()
	}
	return nil
}

// Stand finishes the active hand
func (s *BlackjackSession) Stand(now time.Time) error {
	if s.Phase != PhasePlayerTurn {
		return entities.ErrIllegalAction
	}
	s.acted = true
	s.LastAction = now
	s.advanceHand()
	return nil
}

// Double doubles the stake, draws exactly one card, and forces the dealer
// turn. The caller must have debited the additional stake already.
func (s *BlackjackSession) Double(now time.Time) error {
	if s.Phase != PhasePlayerTurn || s.acted {
		return entities.ErrIllegalAction
	}
	s.acted = true
	s.LastAction = now

	s.Bet *= 2
	s.PlayerHand = append(s.PlayerHand, s.deck.Deal())
	if s.PlayerHand.IsBust() {
		s.resolve()
		return nil
	}
	s.playDealer()
	return nil
}

// Split moves one of the two matching starting cards into a second hand and
// deals one new card to each. The caller must have debited the second stake
// already.
func (s *BlackjackSession) Split(now time.Time) error {
	if !s.CanSplit() {
		return entities.ErrIllegalAction
	}
	s.acted = true
	s.LastAction = now

	s.SplitHand = entities.Hand{s.PlayerHand[1]}
	s.PlayerHand = s.PlayerHand[:1]
	s.PlayerHand = append(s.PlayerHand, s.deck.Deal())
	s.SplitHand = append(s.SplitHand, s.deck.Deal())
	s.SplitBet = s.Bet
	return nil
}

// advanceHand moves play to the split hand if one remains, otherwise to the
// dealer. If every player hand is busted the dealer does not play.
func (s *BlackjackSession) advanceHand() {
	if s.HasSplit() && s.activeHand == 0 {
		s.activeHand = 1
		if !s.SplitHand.IsBust() {
			return
		}
	}

	if s.PlayerHand.IsBust() && (!s.HasSplit() || s.SplitHand.IsBust()) {
		s.resolve()
		return
	}
	s.playDealer()
}

// playDealer runs the dealer turn: hit while under 17, stand on 17 or more
// (no soft-17 special case), then resolve.
func (s *BlackjackSession) playDealer() {
	s.Phase = PhaseDealerTurn
	for s.DealerHand.Value() < 17 {
		s.DealerHand = append(s.DealerHand, s.deck.Deal())
	}
	s.resolve()
}

// resolve scores every player hand against the dealer and fixes the payouts
func (s *BlackjackSession) resolve() {
	s.Phase = PhaseResolved

	s.results = []HandResult{s.scoreHand(s.PlayerHand, s.Bet, s.natural)}
	if s.HasSplit() {
		s.results = append(s.results, s.scoreHand(s.SplitHand, s.SplitBet, false))
	}
}

func (s *BlackjackSession) scoreHand(hand entities.Hand, bet int64, natural bool) HandResult {
	result := HandResult{Hand: hand, Bet: bet}

	playerValue := hand.Value()
	dealerValue := s.DealerHand.Value()

	switch {
	case hand.IsBust():
		result.Outcome = OutcomeLoss
	case s.DealerHand.IsBust() || playerValue > dealerValue:
		result.Outcome = OutcomeWin
		winnings := bet
		if natural && len(hand) == 2 {
			winnings = bet * 3 / 2
		}
		result.Payout = bet + winnings
	case playerValue == dealerValue:
		result.Outcome = OutcomePush
		result.Payout = bet
	default:
		result.Outcome = OutcomeLoss
	}

	return result
}

// Results returns the per-hand outcomes of a resolved session
func (s *BlackjackSession) Results() []HandResult {
	return s.results
}

// TotalPayout sums the credits owed for a resolved session
func (s *BlackjackSession) TotalPayout() int64 {
	var total int64
	for _, r := range s.results {
		total += r.Payout
	}
	return total
}

// TotalBet sums the stakes committed across all hands
func (s *BlackjackSession) TotalBet() int64 {
	return s.Bet + s.SplitBet
}

// Expired reports whether the session has been idle longer than the timeout
func (s *BlackjackSession) Expired(now time.Time, timeout time.Duration) bool {
	return s.Phase != PhaseResolved && now.Sub(s.LastAction) > timeout
}
