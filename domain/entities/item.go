package entities

// Item is a static catalog entry. The same shape backs both the lootbox
// reward pool and the shop listing. Rarity is descriptive metadata only; it
// never weights a draw.
type Item struct {
	ItemID int64  `toml:"item_id"`
	Name   string `toml:"name"`
	Emoji  string `toml:"emoji"`
	Price  int64  `toml:"price"`
	Rarity string `toml:"rarity"`
}

// InventoryGroup is one line of a grouped inventory listing
type InventoryGroup struct {
	Item     Item
	Quantity int
}

// LeaderboardEntry is one row of the balance ranking
type LeaderboardEntry struct {
	DisplayName string
	Balance     int64
}
