package services

import (
	"context"
	"fmt"

	"chipbot/catalog"
	"chipbot/domain/entities"
	"chipbot/domain/events"
	"chipbot/domain/interfaces"
	"chipbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

// InventoryPageSize is how many item groups fit on one inventory page
const InventoryPageSize = 5

type shopService struct {
	accountRepo interfaces.AccountRepository
	historyRepo interfaces.BalanceHistoryRepository
	publisher   interfaces.EventPublisher
	catalog     *catalog.Catalog
	rng         interfaces.Random
}

// NewShopService creates a new shop service
func NewShopService(accountRepo interfaces.AccountRepository, historyRepo interfaces.BalanceHistoryRepository, publisher interfaces.EventPublisher, cat *catalog.Catalog, rng interfaces.Random) interfaces.ShopService {
	return &shopService{
		accountRepo: accountRepo,
		historyRepo: historyRepo,
		publisher:   publisher,
		catalog:     cat,
		rng:         rng,
	}
}

// OpenLootbox consumes one lootbox and draws one item uniformly from the
// lootbox pool. The decrement and the inventory append commit together.
func (s *shopService) OpenLootbox(ctx context.Context, userID int64, displayName string) (*entities.LootboxResult, error) {
	account, err := s.accountRepo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	if !account.HasLootboxes() {
		return nil, entities.ErrNoLootboxes
	}

	item := s.catalog.Draw(s.rng)
	account.Lootboxes--
	account.Inventory = append(account.Inventory, item.ItemID)

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to open lootbox: %w", err)
	}

	if err := s.publisher.Publish(events.LootboxOpenedEvent{
		UserID: userID,
		ItemID: item.ItemID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish lootbox opened event")
	}

	return &entities.LootboxResult{
		Item:      item,
		Remaining: account.Lootboxes,
	}, nil
}

// LootboxCount reports how many unopened lootboxes the account holds
func (s *shopService) LootboxCount(ctx context.Context, userID int64) (int64, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read account: %w", err)
	}
	if account == nil {
		return 0, entities.ErrAccountNotFound
	}
	return account.Lootboxes, nil
}

// BuyItem purchases a shop listing by id, debiting the price and appending
// the item to the inventory in one mutation
func (s *shopService) BuyItem(ctx context.Context, userID int64, displayName string, itemID int64) (*entities.PurchaseResult, error) {
	item, ok := s.catalog.ShopItem(itemID)
	if !ok {
		return nil, fmt.Errorf("item %d: %w", itemID, entities.ErrItemNotFound)
	}

	account, err := s.accountRepo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	if !account.CanAfford(item.Price) {
		return nil, fmt.Errorf("item costs %d, balance is %d: %w", item.Price, account.Balance, entities.ErrInsufficientFunds)
	}

	before := account.Balance
	account.Balance -= item.Price
	account.Inventory = append(account.Inventory, item.ItemID)

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to complete purchase: %w", err)
	}

	history := &entities.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   before,
		BalanceAfter:    account.Balance,
		ChangeAmount:    -item.Price,
		TransactionType: entities.TransactionTypePurchase,
		TransactionMetadata: map[string]any{
			"item_id":   item.ItemID,
			"item_name": item.Name,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.historyRepo, s.publisher, history); err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	return &entities.PurchaseResult{
		Item:       item,
		NewBalance: account.Balance,
	}, nil
}

// ListInventory groups the account's inventory by item id, preserving the
// order in which each distinct item was first acquired. Paging over the
// groups is derived from this snapshot by the caller; nothing is persisted.
func (s *shopService) ListInventory(ctx context.Context, userID int64, displayName string) ([]entities.InventoryGroup, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, nil
	}

	counts := make(map[int64]int)
	var order []int64
	for _, itemID := range account.Inventory {
		if counts[itemID] == 0 {
			order = append(order, itemID)
		}
		counts[itemID]++
	}

	groups := make([]entities.InventoryGroup, 0, len(order))
	for _, itemID := range order {
		item, ok := s.catalog.ItemByID(itemID)
		if !ok {
			// Item retired from the catalog; keep the inventory entry visible.
			item = entities.Item{ItemID: itemID, Name: fmt.Sprintf("Unknown Item #%d", itemID)}
		}
		groups = append(groups, entities.InventoryGroup{
			Item:     item,
			Quantity: counts[itemID],
		})
	}

	return groups, nil
}

// InventoryPage slices a grouped inventory into one fixed-size display page.
// Page numbers are zero-based and clamped to the valid range.
func InventoryPage(groups []entities.InventoryGroup, page int) (pageGroups []entities.InventoryGroup, pageIndex, totalPages int) {
	if len(groups) == 0 {
		return nil, 0, 0
	}

	totalPages = (len(groups) + InventoryPageSize - 1) / InventoryPageSize
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * InventoryPageSize
	end := start + InventoryPageSize
	if end > len(groups) {
		end = len(groups)
	}
	return groups[start:end], page, totalPages
}
