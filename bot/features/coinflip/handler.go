package coinflip

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/bot/common"
	"chipbot/domain/entities"
	"chipbot/domain/services"
)

func (f *Feature) handleCoinflip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options
	if len(options) != 1 {
		common.RespondWithError(s, i, "Please provide a stake.")
		return
	}

	stake, err := entities.ParseStake(options[0].StringValue())
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	userID := common.InteractionUserID(i)
	if userID == 0 {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	displayName := common.InteractionDisplayName(i)

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning coinflip transaction: %v", err)
		common.RespondWithError(s, i, "Unable to flip right now. Please try again.")
		return
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	if _, err := accountService.GetOrCreateAccount(ctx, userID, displayName); err != nil {
		log.Errorf("Error getting account %d for coinflip: %v", userID, err)
		common.RespondWithError(s, i, "Unable to flip right now. Please try again.")
		return
	}

	gamblingService := services.NewGamblingService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), f.rng)
	result, err := gamblingService.Coinflip(ctx, userID, displayName, stake)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing coinflip for %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to flip right now. Please try again.")
		return
	}

	side := "Tails"
	if result.Heads {
		side = "Heads"
	}
	message := fmt.Sprintf("🪙 The coin lands on **%s**!\n%s", side,
		common.FormatWagerResult(result.Won, result.Stake, result.NewBalance))

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to coinflip command: %v", err)
	}
}
