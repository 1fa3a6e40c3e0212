package limbo

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/bot/common"
	"chipbot/domain/entities"
	"chipbot/domain/services"
	"chipbot/domain/utils"
)

func (f *Feature) handleLimbo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var target float64
	var stakeInput string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "target":
			target = opt.FloatValue()
		case "stake":
			stakeInput = opt.StringValue()
		}
	}

	stake, err := entities.ParseStake(stakeInput)
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
		log.Errorf("Error beginning limbo transaction: %v", err)
		common.RespondWithError(s, i, "Unable to play right now. Please try again.")
		return
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	if _, err := accountService.GetOrCreateAccount(ctx, userID, displayName); err != nil {
		log.Errorf("Error getting account %d for limbo: %v", userID, err)
		common.RespondWithError(s, i, "Unable to play right now. Please try again.")
		return
	}

	gamblingService := services.NewGamblingService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), f.rng)
	result, err := gamblingService.Limbo(ctx, userID, displayName, target, stake)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing limbo for %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to play right now. Please try again.")
		return
	}

	var message string
	if result.Won {
		message = fmt.Sprintf("🚀 The multiplier climbed to **%s** — past your target of %s!\n🎉 **You won %s chips!** New balance: **%s chips**",
			utils.FormatMultiplier(result.Multiplier), utils.FormatMultiplier(result.Target),
			common.FormatChips(result.Winnings), common.FormatChips(result.NewBalance))
	} else {
		message = fmt.Sprintf("💥 Crashed at **%s**, short of your target of %s.\n😔 **You lost %s chips.** New balance: **%s chips**",
			utils.FormatMultiplier(result.Multiplier), utils.FormatMultiplier(result.Target),
			common.FormatChips(result.Stake), common.FormatChips(result.NewBalance))
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to limbo command: %v", err)
	}
}
