package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"chipbot/bot"
	"chipbot/catalog"
	"chipbot/config"
	"chipbot/database"
	"chipbot/domain/events"
	"chipbot/domain/utils"
	"chipbot/repository"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting chipbot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Load the item catalog
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load item catalog: %w", err)
	}
	log.Printf("Item catalog loaded: %d lootbox items, %d shop items", cat.LootPoolSize(), len(cat.ShopItems()))

	// Initialize event bus and unit of work factory
	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.GuildID,
	}
	discordBot, err := bot.New(botConfig, uowFactory, cat, utils.NewLockedRand(time.Now().UnixNano()))
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	bot.RegisterBotSubscriptions(eventBus)
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
