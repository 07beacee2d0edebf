package bot

import (
	"fmt"

	"mikune/bot/common"
	"mikune/models"
	"mikune/service"

	"github.com/bwmarrin/discordgo"
)

var minAmount = 1.0

var maxPurchaseQuantity = float64(service.MaxPurchaseQuantity)

func amountOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "amount",
		Description: description,
		Required:    true,
	}
}

func integerAmountOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: description,
		Required:    true,
		MinValue:    &minAmount,
	}
}

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

func propertyChoices() []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, p := range models.Properties() {
		if len(choices) == common.MaxChoices {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%s)", p.Name, common.FormatBalance(p.Price)),
			Value: p.ID,
		})
	}
	return choices
}

func shopChoices() []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, item := range models.ShopItems() {
		if len(choices) == common.MaxChoices {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%s)", item.Name, common.FormatBalance(item.Price)),
			Value: item.ID,
		})
	}
	return choices
}

func jobChoices() []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, job := range models.Jobs() {
		if len(choices) == common.MaxChoices {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: job.ID, Value: job.ID})
	}
	return choices
}

// applicationCommands returns every slash command the bot registers
func applicationCommands() []*discordgo.ApplicationCommand {
	propertyOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "property",
		Description: "Property to trade",
		Required:    true,
		Choices:     propertyChoices(),
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        common.CommandBalance,
			Description: "Check your wallet and bank",
			Options:     []*discordgo.ApplicationCommandOption{userOption("User to check (defaults to you)", false)},
		},
		{
			Name:        common.CommandDeposit,
			Description: "Move carrots from your wallet into the bank",
			Options:     []*discordgo.ApplicationCommandOption{amountOption("Amount to deposit, or 'all'")},
		},
		{
			Name:        common.CommandWithdraw,
			Description: "Move carrots from the bank into your wallet",
			Options:     []*discordgo.ApplicationCommandOption{amountOption("Amount to withdraw, or 'all'")},
		},
		{
			Name:        common.CommandTransfer,
			Description: "Send carrots from your bank to another player's bank (fee applies)",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("User to transfer to", true),
				integerAmountOption("Amount to transfer"),
			},
		},
		{
			Name:        common.CommandPay,
			Description: "Pay another player from your wallet",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("User to pay", true),
				integerAmountOption("Amount to pay"),
			},
		},
		{
			Name:        common.CommandHistory,
			Description: "Show your recent transactions",
		},
		{
			Name:        common.CommandLoan,
			Description: "Borrow and repay loans",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "take",
					Description: "Take out a new loan",
					Options:     []*discordgo.ApplicationCommandOption{integerAmountOption("Amount to borrow")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "repay",
					Description: "Repay your loans from your wallet",
					Options:     []*discordgo.ApplicationCommandOption{amountOption("Amount to repay, or 'all'")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "info",
					Description: "Show your loans and current debt",
				},
			},
		},
		{
			Name:        common.CommandProperty,
			Description: "Buy, sell and collect from properties",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Show properties for sale",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "buy",
					Description: "Buy a property (requires a Property Deed)",
					Options:     []*discordgo.ApplicationCommandOption{propertyOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "sell",
					Description: "Sell a property back for part of its price",
					Options:     []*discordgo.ApplicationCommandOption{propertyOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "collect",
					Description: "Collect income from your properties",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "owned",
					Description: "Show the properties you own",
				},
			},
		},
		{
			Name:        common.CommandDaily,
			Description: "Claim your daily reward",
		},
		{
			Name:        common.CommandWeekly,
			Description: "Claim your weekly reward",
		},
		{
			Name:        common.CommandWork,
			Description: "Work for some carrots",
		},
		{
			Name:        common.CommandRob,
			Description: "Try to rob another player's wallet",
			Options:     []*discordgo.ApplicationCommandOption{userOption("User to rob", true)},
		},
		{
			Name:        common.CommandJob,
			Description: "Choose your job",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Show available jobs",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Take a job",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "job",
							Description: "Job to take",
							Required:    true,
							Choices:     jobChoices(),
						},
					},
				},
			},
		},
		{
			Name:        common.CommandShop,
			Description: "Browse and buy items",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Show the shop catalog",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "buy",
					Description: "Buy an item",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "item",
							Description: "Item to buy",
							Required:    true,
							Choices:     shopChoices(),
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "quantity",
							Description: "How many to buy (default 1)",
							MinValue:    &minAmount,
							MaxValue:    maxPurchaseQuantity,
						},
					},
				},
			},
		},
		{
			Name:        common.CommandProfile,
			Description: "Show a profile card",
			Options:     []*discordgo.ApplicationCommandOption{userOption("User to show (defaults to you)", false)},
		},
		{
			Name:        common.CommandLeaderboard,
			Description: "Show the richest and most experienced players",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "by",
					Description: "Ranking key",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Net worth", Value: string(models.LeaderboardByMoney)},
						{Name: "Level", Value: string(models.LeaderboardByLevel)},
						{Name: "Experience", Value: string(models.LeaderboardByXP)},
					},
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range applicationCommands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}
