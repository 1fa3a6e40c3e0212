package blackjack

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/application"
)

type Feature struct {
	manager *application.BlackjackManager
}

func New(manager *application.BlackjackManager) *Feature {
	return &Feature{
		manager: manager,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBlackjack(s, i)
}

// HandleInteraction handles the action buttons. The custom ID format is
// blackjack_<action>_<owner_user_id>.
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, "blackjack_") {
		f.handleAction(s, i, customID)
		return
	}
	log.Warnf("Unknown blackjack component customID: %s", customID)
}
