package properties

import (
	"fmt"
	"strings"

	"mikune/bot/common"
	"mikune/models"
	"mikune/service"

	"github.com/bwmarrin/discordgo"
)

// CatalogEmbed lists every property with its price, income and resale value
func CatalogEmbed(resaleRate float64) *discordgo.MessageEmbed {
	var lines []string
	for _, p := range models.Properties() {
		lines = append(lines, fmt.Sprintf("%s **%s** `%s`\n%s · earns %s every %dh · resale %s",
			p.Emoji, p.Name, p.ID,
			common.FormatCarrots(p.Price), common.FormatCarrots(p.Income), p.CollectionHours,
			common.FormatCarrots(service.ResalePrice(p.Price, resaleRate)),
		))
	}

	return &discordgo.MessageEmbed{
		Title:       "🏘️ Properties for sale",
		Description: strings.Join(lines, "\n\n"),
		Color:       common.ColorCarrot,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Buying a property requires a Property Deed from the shop.",
		},
	}
}

// PurchaseEmbed renders how a property was paid for
func PurchaseEmbed(result *models.PropertyPurchaseResult) *discordgo.MessageEmbed {
	paid := []string{}
	if result.FromBalance > 0 {
		paid = append(paid, fmt.Sprintf("%s from your wallet", common.FormatCarrots(result.FromBalance)))
	}
	if result.FromBank > 0 {
		paid = append(paid, fmt.Sprintf("%s from your bank", common.FormatCarrots(result.FromBank)))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s You bought %s!", result.Property.Emoji, result.Property.Name),
		Description: "Paid " + strings.Join(paid, " and ") + ".",
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Income", Value: fmt.Sprintf("%s every %dh", common.FormatCarrots(result.Property.Income), result.Property.CollectionHours), Inline: true},
			{Name: "👛 Wallet", Value: common.FormatCarrots(result.Balance), Inline: true},
			{Name: "🏦 Bank", Value: common.FormatCarrots(result.Bank), Inline: true},
		},
	}
}

// CollectionEmbed renders collected property income
func CollectionEmbed(collection *models.IncomeCollection) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏘️ Property income",
		Color: common.ColorCarrot,
	}

	if collection.Total == 0 {
		embed.Description = "Nothing to collect right now."
		return embed
	}

	var lines []string
	for _, income := range collection.Collected {
		lines = append(lines, fmt.Sprintf("%s %s: **%s**", income.Property.Emoji, income.Property.Name, common.FormatCarrots(income.Amount)))
	}
	lines = append(lines, "", fmt.Sprintf("Total: **%s** · Wallet: **%s**", common.FormatCarrots(collection.Total), common.FormatCarrots(collection.Balance)))
	embed.Description = strings.Join(lines, "\n")
	return embed
}

// OwnedEmbed lists owned properties with time until their next collection
func OwnedEmbed(owned []models.OwnedPropertyView) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏠 Your properties",
		Color: common.ColorInfo,
	}

	if len(owned) == 0 {
		embed.Description = "You don't own any properties yet."
		return embed
	}

	var lines []string
	for _, view := range owned {
		next := "ready to collect"
		if view.NextCollection > 0 {
			next = "next income in " + common.FormatDuration(view.NextCollection)
		}
		lines = append(lines, fmt.Sprintf("%s **%s** · %s", view.Property.Emoji, view.Property.Name, next))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}
