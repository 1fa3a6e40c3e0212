package rewards

import (
	"chipbot/application"
	"chipbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	uowFactory application.UnitOfWorkFactory
}

func New(uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		uowFactory: uowFactory,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "daily":
		f.handleClaim(s, i, entities.ClaimTrackDaily)
	case "weekly":
		f.handleClaim(s, i, entities.ClaimTrackWeekly)
	case "monthly":
		f.handleClaim(s, i, entities.ClaimTrackMonthly)
	}
}
