package entities

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	require.Equal(t, 52, deck.Remaining())

	seen := make(map[Card]bool)
	for deck.Remaining() > 0 {
		c := deck.Deal()
		assert.False(t, seen[c], "card %s dealt twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestNewOrderedDeck_DealsInOrder(t *testing.T) {
	cards := []Card{
		{Rank: "A", Suit: "♠"},
		{Rank: "K", Suit: "♥"},
		{Rank: "2", Suit: "♦"},
	}
	deck := NewOrderedDeck(cards)

	assert.Equal(t, cards[0], deck.Deal())
	assert.Equal(t, cards[1], deck.Deal())
	assert.Equal(t, cards[2], deck.Deal())
	assert.Equal(t, 0, deck.Remaining())
}

func TestHand_Value(t *testing.T) {
	tests := []struct {
		name  string
		hand  Hand
		value int
	}{
		{"number cards", Hand{{Rank: "2"}, {Rank: "9"}}, 11},
		{"face cards count ten", Hand{{Rank: "J"}, {Rank: "Q"}, {Rank: "K"}}, 30},
		{"soft ace", Hand{{Rank: "A"}, {Rank: "6"}}, 17},
		{"ace demoted on bust", Hand{{Rank: "A"}, {Rank: "K"}, {Rank: "5"}}, 16},
		{"two aces", Hand{{Rank: "A"}, {Rank: "A"}}, 12},
		{"two aces and nine", Hand{{Rank: "A"}, {Rank: "A"}, {Rank: "9"}}, 21},
		{"all four aces", Hand{{Rank: "A"}, {Rank: "A"}, {Rank: "A"}, {Rank: "A"}}, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.value, tt.hand.Value())
		})
	}
}

func TestHand_IsBlackjack(t *testing.T) {
	assert.True(t, Hand{{Rank: "A"}, {Rank: "K"}}.IsBlackjack())
	assert.True(t, Hand{{Rank: "10"}, {Rank: "A"}}.IsBlackjack())
	assert.False(t, Hand{{Rank: "7"}, {Rank: "7"}, {Rank: "7"}}.IsBlackjack(), "21 off three cards is not a natural")
	assert.False(t, Hand{{Rank: "10"}, {Rank: "9"}}.IsBlackjack())
}

func TestHand_IsBust(t *testing.T) {
	assert.False(t, Hand{{Rank: "10"}, {Rank: "A"}}.IsBust())
	assert.True(t, Hand{{Rank: "10"}, {Rank: "9"}, {Rank: "5"}}.IsBust())
	assert.False(t, Hand{{Rank: "A"}, {Rank: "A"}, {Rank: "K"}, {Rank: "9"}}.IsBust())
}
