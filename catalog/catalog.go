package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"chipbot/domain/entities"
	"chipbot/domain/interfaces"

	"github.com/pelletier/go-toml/v2"
)

//go:embed items.toml
var defaultItems []byte

// Catalog holds the static item reference data: the pool lootboxes draw from
// and the listing the shop sells. Loaded once at startup and immutable for
// the process lifetime.
type Catalog struct {
	lootPool  []entities.Item
	shopItems []entities.Item
	shopByID  map[int64]entities.Item
}

type catalogFile struct {
	LootPool []entities.Item `toml:"loot_pool"`
	Shop     []entities.Item `toml:"shop"`
}

// Load reads a catalog from a TOML file. An empty path loads the embedded
// default catalog.
func Load(path string) (*Catalog, error) {
	data := defaultItems
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return New(file.LootPool, file.Shop)
}

// New builds a catalog from explicit item lists
func New(lootPool, shopItems []entities.Item) (*Catalog, error) {
	if len(lootPool) == 0 {
		return nil, fmt.Errorf("lootbox pool is empty")
	}
	if len(shopItems) == 0 {
		return nil, fmt.Errorf("shop listing is empty")
	}

	shopByID := make(map[int64]entities.Item, len(shopItems))
	for _, item := range shopItems {
		if err := validateItem(item); err != nil {
			return nil, fmt.Errorf("shop item %d: %w", item.ItemID, err)
		}
		if _, dup := shopByID[item.ItemID]; dup {
			return nil, fmt.Errorf("duplicate shop item id %d", item.ItemID)
		}
		shopByID[item.ItemID] = item
	}

	seen := make(map[int64]struct{}, len(lootPool))
	for _, item := range lootPool {
		if err := validateItem(item); err != nil {
			return nil, fmt.Errorf("loot pool item %d: %w", item.ItemID, err)
		}
		if _, dup := seen[item.ItemID]; dup {
			return nil, fmt.Errorf("duplicate loot pool item id %d", item.ItemID)
		}
		seen[item.ItemID] = struct{}{}
	}

	return &Catalog{
		lootPool:  append([]entities.Item(nil), lootPool...),
		shopItems: append([]entities.Item(nil), shopItems...),
		shopByID:  shopByID,
	}, nil
}

func validateItem(item entities.Item) error {
	if item.ItemID <= 0 {
		return fmt.Errorf("item id must be positive")
	}
	if item.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if item.Price < 0 {
		return fmt.Errorf("item price cannot be negative")
	}
	return nil
}

// Draw picks one item uniformly at random from the lootbox pool. Rarity does
// not weight the draw.
func (c *Catalog) Draw(rng interfaces.Random) entities.Item {
	return c.lootPool[rng.Intn(len(c.lootPool))]
}

// ShopItem looks up a shop listing by id
func (c *Catalog) ShopItem(itemID int64) (entities.Item, bool) {
	item, ok := c.shopByID[itemID]
	return item, ok
}

// ShopItems returns the shop listing in display order
func (c *Catalog) ShopItems() []entities.Item {
	return append([]entities.Item(nil), c.shopItems...)
}

// ItemByID resolves an item id against the shop listing first, then the loot
// pool. Inventory entries can originate from either catalog.
func (c *Catalog) ItemByID(itemID int64) (entities.Item, bool) {
	if item, ok := c.shopByID[itemID]; ok {
		return item, true
	}
	for _, item := range c.lootPool {
		if item.ItemID == itemID {
			return item, true
		}
	}
	return entities.Item{}, false
}

// LootPoolSize returns the number of items in the lootbox pool
func (c *Catalog) LootPoolSize() int {
	return len(c.lootPool)
}
