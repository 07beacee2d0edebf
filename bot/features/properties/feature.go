package properties

import (
	"mikune/bot/common"
	"mikune/config"
	"mikune/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the /property command group
type Feature struct {
	propertyService service.PropertyService
	config          *config.Config
}

func New(propertyService service.PropertyService, cfg *config.Config) *Feature {
	return &Feature{
		propertyService: propertyService,
		config:          cfg,
	}
}

func (f *Feature) Commands() []string {
	return []string{common.CommandProperty}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	sub, options := common.SubCommand(i)
	switch sub {
	case "list":
		return common.RespondWithEmbed(s, i, CatalogEmbed(f.config.PropertyResaleRate), false)
	case "buy":
		return f.handleBuy(s, i, options)
	case "sell":
		return f.handleSell(s, i, options)
	case "collect":
		return f.handleCollect(s, i)
	case "owned":
		return f.handleOwned(s, i)
	}
	return common.NewUserError("Unknown property command.", "missing property subcommand")
}
