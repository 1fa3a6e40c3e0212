package shop

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/bot/common"
	"chipbot/domain/entities"
	"chipbot/domain/services"
)

func (f *Feature) handleShop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := buildShopEmbed(f.catalog.ShopItems())
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Errorf("Error responding to shop command: %v", err)
	}
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options
	if len(options) != 1 {
		common.RespondWithError(s, i, "Please provide the item to buy.")
		return
	}
	itemID := options[0].IntValue()

	userID := common.InteractionUserID(i)
	if userID == 0 {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	displayName := common.InteractionDisplayName(i)

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning buy transaction: %v", err)
		common.RespondWithError(s, i, "Unable to complete purchase. Please try again.")
		return
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	if _, err := accountService.GetOrCreateAccount(ctx, userID, displayName); err != nil {
		log.Errorf("Error getting account %d for buy: %v", userID, err)
		common.RespondWithError(s, i, "Unable to complete purchase. Please try again.")
		return
	}

	shopService := services.NewShopService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), f.catalog, f.rng)
	result, err := shopService.BuyItem(ctx, userID, displayName, itemID)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing purchase for %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to complete purchase. Please try again.")
		return
	}

	message := fmt.Sprintf("🛒 You bought %s **%s** for **%s chips**.\nNew balance: **%s chips**",
		result.Item.Emoji, result.Item.Name, common.FormatChips(result.Item.Price), common.FormatChips(result.NewBalance))
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to buy command: %v", err)
	}
}

func (f *Feature) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID := common.InteractionUserID(i)
	if userID == 0 {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	displayName := common.InteractionDisplayName(i)

	groups, lootboxes, err := f.loadInventory(ctx, userID, displayName)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	embed, components := buildInventoryMessage(displayName, groups, lootboxes, userID, 0)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Error responding to inventory command: %v", err)
	}
}

func (f *Feature) handleInventoryPage(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()

	parts := strings.Split(customID, "_")
	if len(parts) != 3 {
		log.Warnf("Malformed inventory customID: %s", customID)
		return
	}
	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		log.Warnf("Malformed inventory owner in customID %s: %v", customID, err)
		return
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil {
		log.Warnf("Malformed inventory page in customID %s: %v", customID, err)
		return
	}

	if common.InteractionUserID(i) != ownerID {
		common.RespondWithError(s, i, "This isn't your inventory.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, parts[1])
	groups, lootboxes, err := f.loadInventory(ctx, ownerID, displayName)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	embed, components := buildInventoryMessage(displayName, groups, lootboxes, ownerID, page)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Error updating inventory page: %v", err)
	}
}

func (f *Feature) handleLootbox(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID := common.InteractionUserID(i)
	if userID == 0 {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	displayName := common.InteractionDisplayName(i)

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning lootbox transaction: %v", err)
		common.RespondWithError(s, i, "Unable to open lootbox. Please try again.")
		return
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	if _, err := accountService.GetOrCreateAccount(ctx, userID, displayName); err != nil {
		log.Errorf("Error getting account %d for lootbox: %v", userID, err)
		common.RespondWithError(s, i, "Unable to open lootbox. Please try again.")
		return
	}

	shopService := services.NewShopService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), f.catalog, f.rng)
	result, err := shopService.OpenLootbox(ctx, userID, displayName)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing lootbox open for %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to open lootbox. Please try again.")
		return
	}

	embed := buildLootboxEmbed(result)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Errorf("Error responding to lootbox command: %v", err)
	}
}

func (f *Feature) handleLootboxCount(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID := common.InteractionUserID(i)
	if userID == 0 {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	displayName := common.InteractionDisplayName(i)

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning lootbox count transaction: %v", err)
		common.RespondWithError(s, i, "Unable to count lootboxes. Please try again.")
		return
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	if _, err := accountService.GetOrCreateAccount(ctx, userID, displayName); err != nil {
		log.Errorf("Error getting account %d for lootbox count: %v", userID, err)
		common.RespondWithError(s, i, "Unable to count lootboxes. Please try again.")
		return
	}

	shopService := services.NewShopService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), f.catalog, f.rng)
	count, err := shopService.LootboxCount(ctx, userID)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing lootbox count for %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to count lootboxes. Please try again.")
		return
	}

	message := fmt.Sprintf("📦 You have **%d** unopened lootboxes.", count)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to lootboxes command: %v", err)
	}
}

// loadInventory reads the grouped inventory and the lootbox count in one
// transaction.
func (f *Feature) loadInventory(ctx context.Context, userID int64, displayName string) ([]entities.InventoryGroup, int64, error) {
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, err
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	account, err := accountService.GetOrCreateAccount(ctx, userID, displayName)
	if err != nil {
		return nil, 0, err
	}

	shopService := services.NewShopService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), f.catalog, f.rng)
	groups, err := shopService.ListInventory(ctx, userID, displayName)
	if err != nil {
		return nil, 0, err
	}

	if err := uow.Commit(); err != nil {
		return nil, 0, err
	}
	return groups, account.Lootboxes, nil
}
