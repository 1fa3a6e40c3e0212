package admin

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/bot/common"
	"chipbot/config"
	"chipbot/domain/services"
)

func (f *Feature) handleSetBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	callerID := common.InteractionUserID(i)
	if callerID == 0 {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if callerID != config.Get().OwnerUserID {
		common.RespondWithError(s, i, "You are not allowed to use this command.")
		return
	}

	var amount int64
	var targetUser *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			targetUser = opt.UserValue(s)
		}
	}
	if targetUser == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}

	targetID, err := common.ParseUserID(targetUser.ID)
	if err != nil {
		log.Errorf("Error parsing target ID %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning setbalance transaction: %v", err)
		common.RespondWithError(s, i, "Unable to update balance. Please try again.")
		return
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	account, err := accountService.SetBalance(ctx, targetID, targetUser.Username, amount)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing setbalance for %d: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to update balance. Please try again.")
		return
	}

	log.WithFields(log.Fields{
		"admin_id":  callerID,
		"target_id": targetID,
		"balance":   account.Balance,
	}).Info("Balance set by administrator")

	message := fmt.Sprintf("⚙️ Set %s's balance to **%s chips**.",
		common.GetUserMention(targetID), common.FormatChips(account.Balance))
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to setbalance command: %v", err)
	}
}
