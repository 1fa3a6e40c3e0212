package entities

// FlipResult reports one coinflip
type FlipResult struct {
	Heads      bool
	Won        bool
	Stake      int64
	NewBalance int64
}

// LimboResult reports one limbo round
type LimboResult struct {
	Won        bool
	Target     float64
	Multiplier float64
	Stake      int64
	// Winnings is the net change applied to the balance
	Winnings   int64
	NewBalance int64
}

// PurchaseResult reports a successful shop purchase
type PurchaseResult struct {
	Item       Item
	NewBalance int64
}

// LootboxResult reports a lootbox opening
type LootboxResult struct {
	Item      Item
	Remaining int64
}
