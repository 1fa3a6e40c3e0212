package shop

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"chipbot/bot/common"
	"chipbot/domain/entities"
	"chipbot/domain/services"
)

func buildShopEmbed(items []entities.Item) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("%s **%s** — %s chips (`/buy item:%d`)\n",
			item.Emoji, item.Name, common.FormatChips(item.Price), item.ItemID))
	}
	if sb.Len() == 0 {
		sb.WriteString("The shop is empty right now.")
	}

	return &discordgo.MessageEmbed{
		Title:       "🏪 Chip Shop",
		Description: sb.String(),
		Color:       common.ColorPrimary,
	}
}

func buildLootboxEmbed(result *entities.LootboxResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📦 Lootbox opened!",
		Description: fmt.Sprintf("You found %s **%s** (%s)!", result.Item.Emoji, result.Item.Name, result.Item.Rarity),
		Color:       common.ColorGold,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d lootboxes remaining", result.Remaining),
		},
	}
}

func buildInventoryMessage(displayName string, groups []entities.InventoryGroup, lootboxes int64, ownerID int64, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	pageGroups, pageIndex, totalPages := services.InventoryPage(groups, page)

	var sb strings.Builder
	for _, g := range pageGroups {
		sb.WriteString(fmt.Sprintf("%s **%s** × %d\n", g.Item.Emoji, g.Item.Name, g.Quantity))
	}
	if sb.Len() == 0 {
		sb.WriteString("Nothing here yet. Open a lootbox or visit the shop!")
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎒 %s's inventory", displayName),
		Description: sb.String(),
		Color:       common.ColorInfo,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d • %d unopened lootboxes", pageIndex+1, totalPages, lootboxes),
		},
	}

	if totalPages <= 1 {
		return embed, nil
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("inventory_%d_%d", ownerID, pageIndex-1),
					Disabled: pageIndex == 0,
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("inventory_%d_%d", ownerID, pageIndex+1),
					Disabled: pageIndex >= totalPages-1,
				},
			},
		},
	}
	return embed, components
}
