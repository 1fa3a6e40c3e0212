package limbo

import (
	"chipbot/application"
	"chipbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	uowFactory application.UnitOfWorkFactory
	rng        interfaces.Random
}

func New(uowFactory application.UnitOfWorkFactory, rng interfaces.Random) *Feature {
	return &Feature{
		uowFactory: uowFactory,
		rng:        rng,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleLimbo(s, i)
}
