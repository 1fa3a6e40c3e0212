package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/application"
	"chipbot/bot/features/admin"
	"chipbot/bot/features/balance"
	"chipbot/bot/features/blackjack"
	"chipbot/bot/features/coinflip"
	"chipbot/bot/features/leaderboard"
	"chipbot/bot/features/limbo"
	"chipbot/bot/features/rewards"
	"chipbot/bot/features/shop"
	"chipbot/bot/features/transfer"
	"chipbot/catalog"
	"chipbot/domain/interfaces"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config           Config
	session          *discordgo.Session
	uowFactory       application.UnitOfWorkFactory
	blackjackManager *application.BlackjackManager

	// Feature modules
	balance     *balance.Feature
	rewards     *rewards.Feature
	transfer    *transfer.Feature
	shop        *shop.Feature
	coinflip    *coinflip.Feature
	limbo       *limbo.Feature
	blackjack   *blackjack.Feature
	leaderboard *leaderboard.Feature
	admin       *admin.Feature

	stopSessionSweeper func()
}

// New creates a bot instance with all features wired, opens the gateway
// connection, and registers the slash commands.
func New(config Config, uowFactory application.UnitOfWorkFactory, cat *catalog.Catalog, rng interfaces.Random) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	blackjackManager := application.NewBlackjackManager(uowFactory, rng)

	bot := &Bot{
		config:           config,
		session:          dg,
		uowFactory:       uowFactory,
		blackjackManager: blackjackManager,
	}

	bot.balance = balance.New(uowFactory)
	bot.rewards = rewards.New(uowFactory)
	bot.transfer = transfer.New(uowFactory)
	bot.shop = shop.New(uowFactory, cat, rng)
	bot.coinflip = coinflip.New(uowFactory, rng)
	bot.limbo = limbo.New(uowFactory, rng)
	bot.blackjack = blackjack.New(blackjackManager)
	bot.leaderboard = leaderboard.New(uowFactory)
	bot.admin = admin.New(uowFactory)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.stopSessionSweeper = blackjackManager.Start(context.Background())
	log.Info("Bot started")

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopSessionSweeper != nil {
		b.stopSessionSweeper()
	}
	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// handleCommands routes slash commands to the owning feature
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.balance.HandleCommand(s, i)
	case "daily", "weekly", "monthly":
		b.rewards.HandleCommand(s, i)
	case "give":
		b.transfer.HandleCommand(s, i)
	case "shop", "buy", "inventory", "lootbox", "lootboxes":
		b.shop.HandleCommand(s, i)
	case "coinflip":
		b.coinflip.HandleCommand(s, i)
	case "limbo":
		b.limbo.HandleCommand(s, i)
	case "blackjack":
		b.blackjack.HandleCommand(s, i)
	case "leaderboard":
		b.leaderboard.HandleCommand(s, i)
	case "setbalance":
		b.admin.HandleCommand(s, i)
	}
}

// handleInteractions routes component interactions by custom ID prefix
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "blackjack_"):
		b.blackjack.HandleInteraction(s, i)
	case strings.HasPrefix(customID, "inventory_"):
		b.shop.HandleInteraction(s, i)
	default:
		log.Warnf("Unhandled component customID: %s", customID)
	}
}
