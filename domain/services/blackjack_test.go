package services

import (
	"testing"
	"time"

	"chipbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(rank entities.Rank, suit entities.Suit) entities.Card {
	return entities.Card{Rank: rank, Suit: suit}
}

// riggedSession starts a session dealing the given cards in order: player,
// player, dealer, then one per subsequent draw
func riggedSession(bet int64, cards ...entities.Card) *BlackjackSession {
	deck := entities.NewOrderedDeck(cards)
	return NewBlackjackSession(TestUser1ID, TestUser1Name, bet, deck, time.Now())
}

func TestBlackjackSession_OpeningDeal(t *testing.T) {
	session := riggedSession(100,
		card("10", "♠"), card("7", "♥"), card("9", "♦"),
	)

	assert.Equal(t, PhasePlayerTurn, session.Phase)
	assert.Len(t, session.PlayerHand, 2)
	assert.Len(t, session.DealerHand, 1)
	assert.Equal(t, 17, session.PlayerHand.Value())
	assert.Equal(t, 9, session.DealerHand.Value())
	assert.False(t, session.HasSplit())
}

func TestBlackjackSession_NaturalBeatsDealerNineteen(t *testing.T) {
	session := riggedSession(100,
		card("A", "♠"), card("K", "♥"), // player: natural 21
		card("10", "♦"), // dealer
		card("9", "♣"),  // dealer draws to 19
	)

	require.True(t, session.PlayerHand.IsBlackjack())
	require.NoError(t, session.Stand(time.Now()))

	require.Equal(t, PhaseResolved, session.Phase)
	results := session.Results()
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeWin, results[0].Outcome)
	// Natural pays 3:2 on top of the returned stake
	assert.Equal(t, int64(250), results[0].Payout)
	assert.Equal(t, int64(250), session.TotalPayout())
}

func TestBlackjackSession_PlayerBust(t *testing.T) {
	session := riggedSession(100,
		card("10", "♠"), card("9", "♥"), // player: 19
		card("6", "♦"), // dealer
		card("5", "♣"), // player hits to 24
	)

	require.NoError(t, session.Hit(time.Now()))

	require.Equal(t, PhaseResolved, session.Phase)
	assert.Equal(t, 24, session.PlayerHand.Value())
	assert.Equal(t, OutcomeLoss, session.Results()[0].Outcome)
	assert.Equal(t, int64(0), session.TotalPayout())
	// Dealer never plays out a dead hand
	assert.Len(t, session.DealerHand, 1)
}

func TestBlackjackSession_Push(t *testing.T) {
	session := riggedSession(100,
		card("10", "♠"), card("Q", "♥"), // player: 20
		card("K", "♦"),  // dealer
		card("10", "♣"), // dealer draws to 20
	)

	require.NoError(t, session.Stand(time.Now()))

	results := session.Results()
	require.Len(t, results, 1)
	assert.Equal(t, OutcomePush, results[0].Outcome)
	assert.Equal(t, int64(100), session.TotalPayout())
}

func TestBlackjackSession_DealerBust(t *testing.T) {
	session := riggedSession(100,
		card("10", "♠"), card("8", "♥"), // player: 18
		card("6", "♦"),                  // dealer
		card("10", "♣"), card("10", "♥"), // dealer draws to 26
	)

	require.NoError(t, session.Stand(time.Now()))

	assert.True(t, session.DealerHand.IsBust())
	assert.Equal(t, OutcomeWin, session.Results()[0].Outcome)
	assert.Equal(t, int64(200), session.TotalPayout())
}

func TestBlackjackSession_DealerStandsOnSeventeen(t *testing.T) {
	session := riggedSession(100,
		card("10", "♠"), card("8", "♥"), // player: 18
		card("7", "♦"),  // dealer
		card("10", "♣"), // dealer reaches exactly 17 and stands
	)

	require.NoError(t, session.Stand(time.Now()))

	assert.Equal(t, 17, session.DealerHand.Value())
	assert.Len(t, session.DealerHand, 2)
	assert.Equal(t, OutcomeWin, session.Results()[0].Outcome)
}

func TestBlackjackSession_AceDemotion(t *testing.T) {
	session := riggedSession(100,
		card("A", "♠"), card("A", "♦"), // player: 12 (11+1)
		card("10", "♦"), // dealer
		card("9", "♣"),  // player hits to 21
		card("9", "♥"),  // dealer draws to 19
	)

	assert.Equal(t, 12, session.PlayerHand.Value())
	require.NoError(t, session.Hit(time.Now()))
	assert.Equal(t, 21, session.PlayerHand.Value())
	assert.False(t, session.PlayerHand.IsBlackjack())

	require.NoError(t, session.Stand(time.Now()))
	assert.Equal(t, OutcomeWin, session.Results()[0].Outcome)
	// 21 off three cards pays even money, not 3:2
	assert.Equal(t, int64(200), session.TotalPayout())
}

func TestBlackjackSession_Double(t *testing.T) {
	t.Run("win pays on the doubled stake", func(t *testing.T) {
		session := riggedSession(100,
			card("5", "♠"), card("6", "♥"), // player: 11
			card("8", "♦"),  // dealer
			card("10", "♣"), // player doubles into 21
			card("10", "♥"), // dealer draws to 18
		)

		require.True(t, session.CanDouble(100))
		require.NoError(t, session.Double(time.Now()))

		require.Equal(t, PhaseResolved, session.Phase)
		assert.Equal(t, int64(200), session.Bet)
		assert.Len(t, session.PlayerHand, 3)
		assert.Equal(t, OutcomeWin, session.Results()[0].Outcome)
		assert.Equal(t, int64(400), session.TotalPayout())
	})

	t.Run("bust after double resolves immediately", func(t *testing.T) {
		session := riggedSession(100,
			card("10", "♠"), card("6", "♥"), // player: 16
			card("8", "♦"),  // dealer
			card("10", "♣"), // player doubles into 26
		)

		require.NoError(t, session.Double(time.Now()))

		require.Equal(t, PhaseResolved, session.Phase)
		assert.Equal(t, OutcomeLoss, session.Results()[0].Outcome)
		assert.Equal(t, int64(0), session.TotalPayout())
		assert.Len(t, session.DealerHand, 1)
	})

	t.Run("needs balance to cover the second stake", func(t *testing.T) {
		session := riggedSession(100,
			card("5", "♠"), card("6", "♥"), card("8", "♦"),
		)
		assert.False(t, session.CanDouble(99))
		assert.True(t, session.CanDouble(100))
	})

	t.Run("illegal after first action", func(t *testing.T) {
		session := riggedSession(100,
			card("2", "♠"), card("3", "♥"), card("8", "♦"), card("4", "♣"),
		)
		require.NoError(t, session.Hit(time.Now()))
		assert.ErrorIs(t, session.Double(time.Now()), entities.ErrIllegalAction)
	})
}

func TestBlackjackSession_Split(t *testing.T) {
	t.Run("both hands play and pay independently", func(t *testing.T) {
		session := riggedSession(100,
			card("8", "♠"), card("8", "♥"), // player: pair of eights
			card("6", "♦"),                 // dealer
			card("10", "♣"), card("3", "♣"), // one card to each split hand
			card("8", "♦"),                  // split hand hits to 19
			card("10", "♦"), card("A", "♣"), // dealer draws to 17
		)

		require.True(t, session.CanSplit())
		require.NoError(t, session.Split(time.Now()))

		assert.True(t, session.HasSplit())
		assert.Equal(t, 18, session.PlayerHand.Value())
		assert.Equal(t, 11, session.SplitHand.Value())
		assert.Equal(t, int64(100), session.SplitBet)
		assert.Equal(t, int64(200), session.TotalBet())

		// Main hand stands at 18, split hand hits 8 then stands at 19
		require.NoError(t, session.Stand(time.Now()))
		require.Equal(t, PhasePlayerTurn, session.Phase)
		require.NoError(t, session.Hit(time.Now()))
		assert.Equal(t, 19, session.SplitHand.Value())
		require.NoError(t, session.Stand(time.Now()))

		require.Equal(t, PhaseResolved, session.Phase)
		assert.Equal(t, 17, session.DealerHand.Value())

		results := session.Results()
		require.Len(t, results, 2)
		assert.Equal(t, OutcomeWin, results[0].Outcome)
		assert.Equal(t, OutcomeWin, results[1].Outcome)
		assert.Equal(t, int64(400), session.TotalPayout())
	})

	t.Run("two-card 21 after split pays even money", func(t *testing.T) {
		session := riggedSession(100,
			card("A", "♠"), card("A", "♥"), // player: pair of aces
			card("10", "♦"),                // dealer
			card("K", "♣"), card("K", "♦"), // one card to each split hand: 21 and 21
			card("9", "♣"), // dealer draws to 19
		)

		require.NoError(t, session.Split(time.Now()))
		require.True(t, session.PlayerHand.IsBlackjack())
		require.True(t, session.SplitHand.IsBlackjack())

		require.NoError(t, session.Stand(time.Now()))
		require.NoError(t, session.Stand(time.Now()))

		require.Equal(t, PhaseResolved, session.Phase)
		results := session.Results()
		require.Len(t, results, 2)
		assert.Equal(t, OutcomeWin, results[0].Outcome)
		assert.Equal(t, OutcomeWin, results[1].Outcome)
		// The 3:2 bonus belongs to an opening-deal natural only
		assert.Equal(t, int64(200), results[0].Payout)
		assert.Equal(t, int64(200), results[1].Payout)
		assert.Equal(t, int64(400), session.TotalPayout())
	})

	t.Run("both hands busting skips the dealer", func(t *testing.T) {
		session := riggedSession(100,
			card("8", "♠"), card("8", "♥"),
			card("6", "♦"),
			card("10", "♣"), card("9", "♣"), // split hands: 18 and 17
			card("10", "♦"), // main hand busts at 28
			card("10", "♥"), // split hand busts at 27
		)

		require.NoError(t, session.Split(time.Now()))
		require.NoError(t, session.Hit(time.Now())) // main: 8,10,10 bust
		require.Equal(t, PhasePlayerTurn, session.Phase)
		require.NoError(t, session.Hit(time.Now())) // split: 8,9,10 bust

		require.Equal(t, PhaseResolved, session.Phase)
		assert.Len(t, session.DealerHand, 1)
		assert.Equal(t, int64(0), session.TotalPayout())
	})

	t.Run("split requires a matching pair", func(t *testing.T) {
		session := riggedSession(100,
			card("8", "♠"), card("9", "♥"), card("6", "♦"),
		)
		assert.False(t, session.CanSplit())
		assert.ErrorIs(t, session.Split(time.Now()), entities.ErrIllegalAction)
	})

	t.Run("split is first-action only", func(t *testing.T) {
		session := riggedSession(100,
			card("8", "♠"), card("8", "♥"), card("6", "♦"), card("2", "♣"),
		)
		require.NoError(t, session.Hit(time.Now()))
		assert.False(t, session.CanSplit())
	})
}

func TestBlackjackSession_ActionsAfterResolution(t *testing.T) {
	session := riggedSession(100,
		card("10", "♠"), card("9", "♥"),
		card("10", "♦"), card("8", "♣"),
	)
	require.NoError(t, session.Stand(time.Now()))
	require.Equal(t, PhaseResolved, session.Phase)

	now := time.Now()
	assert.ErrorIs(t, session.Hit(now), entities.ErrIllegalAction)
	assert.ErrorIs(t, session.Stand(now), entities.ErrIllegalAction)
	assert.ErrorIs(t, session.Double(now), entities.ErrIllegalAction)
	assert.ErrorIs(t, session.Split(now), entities.ErrIllegalAction)
}

func TestBlackjackSession_Expired(t *testing.T) {
	start := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	deck := entities.NewOrderedDeck([]entities.Card{
		card("10", "♠"), card("9", "♥"), card("10", "♦"), card("2", "♣"), card("9", "♣"),
	})
	session := NewBlackjackSession(TestUser1ID, TestUser1Name, 100, deck, start)

	timeout := 5 * time.Minute
	assert.False(t, session.Expired(start.Add(timeout), timeout))
	assert.True(t, session.Expired(start.Add(timeout+time.Second), timeout))

	// Activity pushes the clock forward
	require.NoError(t, session.Hit(start.Add(4*time.Minute)))
	assert.False(t, session.Expired(start.Add(timeout+time.Second), timeout))

	// Resolved sessions never expire
	require.NoError(t, session.Stand(start.Add(4*time.Minute)))
	require.Equal(t, PhaseResolved, session.Phase)
	assert.False(t, session.Expired(start.Add(time.Hour), timeout))
}
