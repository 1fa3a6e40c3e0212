package balance

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/bot/common"
	"chipbot/domain/services"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID := common.InteractionUserID(i)
	if userID == 0 {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error starting transaction for balance command: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	account, err := accountService.GetOrCreateAccount(ctx, userID, common.InteractionDisplayName(i))
	if err != nil {
		log.Errorf("Error getting account %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing balance transaction for %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	message := fmt.Sprintf("%s, your current balance: **%s chips**", account.DisplayName, common.FormatChips(account.Balance))
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}
