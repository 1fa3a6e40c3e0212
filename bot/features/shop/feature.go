package shop

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/application"
	"chipbot/catalog"
	"chipbot/domain/interfaces"
)

type Feature struct {
	uowFactory application.UnitOfWorkFactory
	catalog    *catalog.Catalog
	rng        interfaces.Random
}

func New(uowFactory application.UnitOfWorkFactory, cat *catalog.Catalog, rng interfaces.Random) *Feature {
	return &Feature{
		uowFactory: uowFactory,
		catalog:    cat,
		rng:        rng,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "shop":
		f.handleShop(s, i)
	case "buy":
		f.handleBuy(s, i)
	case "inventory":
		f.handleInventory(s, i)
	case "lootbox":
		f.handleLootbox(s, i)
	case "lootboxes":
		f.handleLootboxCount(s, i)
	}
}

// HandleInteraction handles the inventory pagination buttons. The custom ID
// format is inventory_<user_id>_<page>.
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, "inventory_") {
		f.handleInventoryPage(s, i, customID)
		return
	}
	log.Warnf("Unknown shop component customID: %s", customID)
}
