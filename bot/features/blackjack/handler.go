package blackjack

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/bot/common"
	"chipbot/domain/entities"
	"chipbot/domain/services"
)

func (f *Feature) handleBlackjack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options
	if len(options) != 1 {
		common.RespondWithError(s, i, "Please provide a bet.")
		return
	}
	bet := options[0].IntValue()

	userID := common.InteractionUserID(i)
	if userID == 0 {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	displayName := common.InteractionDisplayName(i)

	session, newBalance, err := f.manager.StartSession(ctx, userID, displayName, bet)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	embed, components := buildSessionMessage(session, userID, newBalance, false)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Error responding to blackjack command: %v", err)
	}
}

func (f *Feature) handleAction(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()

	parts := strings.Split(customID, "_")
	if len(parts) != 3 {
		log.Warnf("Malformed blackjack customID: %s", customID)
		return
	}
	action := services.BlackjackAction(parts[1])
	ownerID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		log.Warnf("Malformed blackjack owner in customID %s: %v", customID, err)
		return
	}

	if common.InteractionUserID(i) != ownerID {
		common.RespondWithDomainError(s, i, entities.ErrNotSessionOwner)
		return
	}

	result, err := f.manager.Act(ctx, ownerID, action)
	if err != nil {
		common.RespondWithDomainError(s, i, err)
		return
	}

	embed, components := buildSessionMessage(result.Session, ownerID, result.NewBalance, result.Settled)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Error updating blackjack message: %v", err)
	}
}
