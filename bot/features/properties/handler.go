package properties

import (
	"context"
	"fmt"

	"mikune/bot/common"

	"github.com/bwmarrin/discordgo"
)

func propertyOption(options []*discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	opt := common.OptionMap(options)["property"]
	if opt == nil {
		return "", common.NewUserError("Please choose a property.", "missing property option")
	}
	return opt.StringValue(), nil
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	propertyID, err := propertyOption(options)
	if err != nil {
		return err
	}

	result, err := f.propertyService.Buy(context.Background(), common.InteractionUserID(i), propertyID)
	if err != nil {
		return common.FromServiceError(err, "property purchase rejected")
	}

	return common.RespondWithEmbed(s, i, PurchaseEmbed(result), false)
}

func (f *Feature) handleSell(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	propertyID, err := propertyOption(options)
	if err != nil {
		return err
	}

	result, err := f.propertyService.Sell(context.Background(), common.InteractionUserID(i), propertyID)
	if err != nil {
		return common.FromServiceError(err, "property sale rejected")
	}

	return common.RespondWithSuccess(s, i, fmt.Sprintf("Sold %s **%s** for **%s**. Wallet: **%s**",
		result.Property.Emoji, result.Property.Name,
		common.FormatCarrots(result.Proceeds), common.FormatCarrots(result.Balance)), false)
}

func (f *Feature) handleCollect(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	collection, err := f.propertyService.CollectIncome(context.Background(), common.InteractionUserID(i))
	if err != nil {
		return common.FromServiceError(err, "income collection failed")
	}

	return common.RespondWithEmbed(s, i, CollectionEmbed(collection), false)
}

func (f *Feature) handleOwned(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	owned, err := f.propertyService.ListOwned(context.Background(), common.InteractionUserID(i))
	if err != nil {
		return common.FromServiceError(err, "failed to list properties")
	}

	return common.RespondWithEmbed(s, i, OwnedEmbed(owned), true)
}
