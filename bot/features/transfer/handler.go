package transfer

import (
	"context"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/bot/common"
	"chipbot/domain/services"
)

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options
	if len(options) != 2 {
		common.RespondWithError(s, i, "Invalid command options. Please provide both user and amount.")
		return
	}

	var amount int64
	var recipientUser *discordgo.User
	for _, opt := range options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			recipientUser = opt.UserValue(s)
		}
	}

	if recipientUser == nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}
	if recipientUser.Bot {
		common.RespondWithError(s, i, "You can't give chips to a bot.")
		return
	}

	fromUserID := common.InteractionUserID(i)
	if fromUserID == 0 {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	toUserID, err := common.ParseUserID(recipientUser.ID)
	if err != nil {
		log.Errorf("Error parsing recipient ID %s: %v", recipientUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transfer transaction: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())

	// Ensure both accounts exist before moving anything.
	if _, err := accountService.GetOrCreateAccount(ctx, fromUserID, common.InteractionDisplayName(i)); err != nil {
		log.Errorf("Error getting sender account %d: %v", fromUserID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if _, err := accountService.GetOrCreateAccount(ctx, toUserID, recipientUser.Username); err != nil {
		log.Errorf("Error getting recipient account %d: %v", toUserID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := accountService.Transfer(ctx, fromUserID, toUserID, amount); err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transfer from %d to %d: %v", fromUserID, toUserID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	message := common.FormatTransferResult(amount, toUserID)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to give command: %v", err)
	}
}
