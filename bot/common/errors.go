package common

import (
	"errors"
	"fmt"

	"chipbot/domain/entities"
	"chipbot/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// UserFacingMessage translates a domain error into something worth showing
// the player. Unrecognized errors get a generic message so internals never
// leak into chat.
func UserFacingMessage(err error) string {
	if notEligible, ok := entities.AsNotEligible(err); ok {
		return fmt.Sprintf("You already claimed your %s reward. Come back in %s.",
			notEligible.Track, utils.FormatCooldown(notEligible.Remaining))
	}

	switch {
	case errors.Is(err, entities.ErrInvalidStake):
		return "Enter a positive amount of chips, or `all`."
	case errors.Is(err, entities.ErrInsufficientFunds):
		return "You don't have enough chips for that."
	case errors.Is(err, entities.ErrItemNotFound):
		return "The shop doesn't sell that."
	case errors.Is(err, entities.ErrNoLootboxes):
		return "You don't have any lootboxes. Claim a daily reward to earn one."
	case errors.Is(err, entities.ErrAccountNotFound):
		return "You don't have an account yet. Any command that earns chips will create one."
	case errors.Is(err, entities.ErrSessionNotFound):
		return "That game is over."
	case errors.Is(err, entities.ErrSessionExpired):
		return "That game sat idle too long and the stake was forfeited."
	case errors.Is(err, entities.ErrNotSessionOwner):
		return "This isn't your game."
	case errors.Is(err, entities.ErrIllegalAction):
		return "You can't do that right now."
	default:
		return "Something went wrong. Please try again later."
	}
}

// RespondWithError sends an ephemeral error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// RespondWithDomainError logs err and responds with its user-facing translation
func RespondWithDomainError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	log.WithFields(log.Fields{
		"user_id": InteractionUserID(i),
		"error":   err.Error(),
	}).Warn("Command failed")
	RespondWithError(s, i, UserFacingMessage(err))
}
