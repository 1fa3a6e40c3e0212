package entities

import (
	"strings"
)

// Shuffler is the randomness a deck shuffle needs. Both *rand.Rand and the
// process-wide locked source satisfy it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Suit and Rank spell out a standard playing card
type (
	Suit string
	Rank string
)

var (
	Suits = []Suit{"♠", "♥", "♦", "♣"}
	Ranks = []Rank{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
)

// Card is one of the 52 cards of a standard deck
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return string(c.Rank) + string(c.Suit)
}

// baseValue is the card's blackjack value counting an Ace as 11
func (c Card) baseValue() int {
	switch c.Rank {
	case "A":
		return 11
	case "J", "Q", "K", "10":
		return 10
	case "2", "3", "4", "5", "6", "7", "8", "9":
		return int(c.Rank[0] - '0')
	default:
		return 0
	}
}

// Deck is a shuffled pile of cards consumed from the top. Decks are never
// reshuffled once a session starts.
type Deck struct {
	cards []Card
}

// NewDeck builds a full 52-card deck shuffled with the supplied source
func NewDeck(rng Shuffler) *Deck {
	cards := make([]Card, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// NewOrderedDeck builds a deck dealing the given cards in order. Used by
// tests that need a predetermined shoe.
func NewOrderedDeck(cards []Card) *Deck {
	reversed := make([]Card, len(cards))
	for i, c := range cards {
		reversed[len(cards)-1-i] = c
	}
	return &Deck{cards: reversed}
}

// Deal removes and returns the top card
func (d *Deck) Deal() Card {
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Hand is an ordered set of cards held by the player or dealer
type Hand []Card

// Value computes the blackjack value of the hand. Aces start at 11 and are
// demoted to 1 one at a time while the total exceeds 21.
func (h Hand) Value() int {
	value := 0
	aces := 0
	for _, c := range h {
		if c.Rank == "A" {
			aces++
		}
		value += c.baseValue()
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// IsBlackjack reports a natural: 21 from exactly two cards
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == 21
}

// IsBust reports a hand value over 21
func (h Hand) IsBust() bool {
	return h.Value() > 21
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
