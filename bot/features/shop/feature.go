package shop

import (
	"context"
	"fmt"
	"strings"

	"mikune/bot/common"
	"mikune/models"
	"mikune/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the /shop command group
type Feature struct {
	shopService service.ShopService
}

func New(shopService service.ShopService) *Feature {
	return &Feature{shopService: shopService}
}

func (f *Feature) Commands() []string {
	return []string{common.CommandShop}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	sub, options := common.SubCommand(i)
	switch sub {
	case "list":
		return common.RespondWithEmbed(s, i, CatalogEmbed(), false)
	case "buy":
		return f.handleBuy(s, i, options)
	}
	return common.NewUserError("Please choose list or buy.", "missing shop subcommand")
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	opts := common.OptionMap(options)
	itemOpt := opts["item"]
	if itemOpt == nil {
		return common.NewUserError("Please choose an item.", "missing shop item")
	}
	quantity := int64(1)
	if q := opts["quantity"]; q != nil {
		quantity = q.IntValue()
	}

	result, err := f.shopService.BuyItem(context.Background(), common.InteractionUserID(i), itemOpt.StringValue(), quantity)
	if err != nil {
		return common.FromServiceError(err, "shop purchase rejected")
	}

	return common.RespondWithSuccess(s, i, fmt.Sprintf("Bought %d× %s **%s** for **%s**. You now own %d. Wallet: **%s**",
		result.Quantity, result.Item.Emoji, result.Item.Name, common.FormatCarrots(result.Cost),
		result.Owned, common.FormatCarrots(result.Balance)), false)
}

// CatalogEmbed lists shop items grouped by category
func CatalogEmbed() *discordgo.MessageEmbed {
	byCategory := map[string][]string{}
	var categories []string
	for _, item := range models.ShopItems() {
		if _, ok := byCategory[item.Category]; !ok {
			categories = append(categories, item.Category)
		}
		byCategory[item.Category] = append(byCategory[item.Category],
			fmt.Sprintf("%s **%s** `%s` · %s\n%s", item.Emoji, item.Name, item.ID, common.FormatCarrots(item.Price), item.Description))
	}

	embed := &discordgo.MessageEmbed{
		Title: "🛒 Shop",
		Color: common.ColorCarrot,
	}
	for _, category := range categories {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  strings.ToUpper(category[:1]) + category[1:],
			Value: strings.Join(byCategory[category], "\n"),
		})
	}
	return embed
}
