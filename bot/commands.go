package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	minBet := float64(1)
	minTarget := 1.01

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your current chip balance",
		},
		{
			Name:        "daily",
			Description: "Claim your daily reward",
		},
		{
			Name:        "weekly",
			Description: "Claim your weekly reward",
		},
		{
			Name:        "monthly",
			Description: "Claim your monthly reward",
		},
		{
			Name:        "give",
			Description: "Give chips to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to give chips to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of chips to give",
					Required:    true,
					MinValue:    &minBet,
				},
			},
		},
		{
			Name:        "shop",
			Description: "Browse the item shop",
		},
		{
			Name:        "buy",
			Description: "Buy an item from the shop",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "item",
					Description: "Item ID from the shop listing",
					Required:    true,
				},
			},
		},
		{
			Name:        "inventory",
			Description: "Show your item collection",
		},
		{
			Name:        "lootbox",
			Description: "Open one of your lootboxes",
		},
		{
			Name:        "lootboxes",
			Description: "Count your unopened lootboxes",
		},
		{
			Name:        "coinflip",
			Description: "Flip a coin, double or nothing",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "stake",
					Description: "Amount of chips to stake, or 'all'",
					Required:    true,
				},
			},
		},
		{
			Name:        "limbo",
			Description: "Pick a target multiplier and hope the climb reaches it",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "target",
					Description: "Target multiplier, e.g. 2.5",
					Required:    true,
					MinValue:    &minTarget,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "stake",
					Description: "Amount of chips to stake, or 'all'",
					Required:    true,
				},
			},
		},
		{
			Name:        "blackjack",
			Description: "Play a hand of blackjack against the dealer",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount of chips to bet",
					Required:    true,
					MinValue:    &minBet,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the wealthiest players",
		},
		{
			Name:        "setbalance",
			Description: "Set a player's balance (bot owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player whose balance to set",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "New balance in chips",
					Required:    true,
				},
			},
		},
	}

	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, commands)
	if err != nil {
		return fmt.Errorf("error registering commands: %w", err)
	}

	log.Infof("Registered %d slash commands", len(registered))
	return nil
}
