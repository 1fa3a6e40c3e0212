package rewards

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/bot/common"
	"chipbot/domain/entities"
	"chipbot/domain/services"
)

func (f *Feature) handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate, track entities.ClaimTrack) {
	ctx := context.Background()

	userID := common.InteractionUserID(i)
	if userID == 0 {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	displayName := common.InteractionDisplayName(i)

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error starting transaction for %s claim: %v", track, err)
		common.RespondWithError(s, i, "Unable to claim reward. Please try again.")
		return
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	if _, err := accountService.GetOrCreateAccount(ctx, userID, displayName); err != nil {
		log.Errorf("Error getting account %d for %s claim: %v", userID, track, err)
		common.RespondWithError(s, i, "Unable to claim reward. Please try again.")
		return
	}

	rewardService := services.NewRewardService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	result, err := rewardService.Claim(ctx, track, userID, displayName, time.Now())
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing %s claim for %d: %v", track, userID, err)
		common.RespondWithError(s, i, "Unable to claim reward. Please try again.")
		return
	}

	message := fmt.Sprintf("🎁 You claimed your %s reward: **%s chips**", track, common.FormatChips(result.Chips))
	if result.Lootboxes > 0 {
		message += fmt.Sprintf(" and **%d lootboxes**", result.Lootboxes)
	}
	message += fmt.Sprintf("!\nNew balance: **%s chips** • next claim %s",
		common.FormatChips(result.NewBalance),
		common.FormatDiscordTimestamp(time.Now().Add(track.Period()), "R"))

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to %s claim: %v", track, err)
	}
}
