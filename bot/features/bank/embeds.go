package bank

import (
	"fmt"
	"strings"

	"mikune/bot/common"
	"mikune/models"

	"github.com/bwmarrin/discordgo"
)

// BalanceEmbed renders the wallet and bank view of an account
func BalanceEmbed(name string, account *models.Account, interest *models.InterestResult, rate float64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's balance", name),
		Color: common.ColorCarrot,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👛 Wallet", Value: common.FormatCarrots(account.Balance), Inline: true},
			{Name: "🏦 Bank", Value: common.FormatCarrots(account.Bank), Inline: true},
			{Name: "💰 Net worth", Value: common.FormatCarrots(account.NetWorth()), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Bank savings earn %s interest per day", common.FormatPercent(rate)),
		},
	}

	if interest != nil && interest.Applied && interest.Amount > 0 {
		embed.Description = fmt.Sprintf("📈 You earned **%s** in interest since your last visit.", common.FormatCarrots(interest.Amount))
	}

	return embed
}

// LedgerEmbed renders the result of a deposit or withdrawal
func LedgerEmbed(title, verb string, result *models.LedgerResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("%s **%s**.", verb, common.FormatCarrots(result.Amount)),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👛 Wallet", Value: common.FormatCarrots(result.Balance), Inline: true},
			{Name: "🏦 Bank", Value: common.FormatCarrots(result.Bank), Inline: true},
		},
	}
}

// TransferEmbed renders a completed bank transfer
func TransferEmbed(recipientID string, result *models.TransferResult) *discordgo.MessageEmbed {
	feeLine := fmt.Sprintf("%s (%s)", common.FormatCarrots(result.Fee), common.FormatPercent(result.FeePercent))
	if result.CertificateApplied {
		feeLine += " 📜 certificate discount"
	}

	return &discordgo.MessageEmbed{
		Title:       "🏦 Transfer complete",
		Description: fmt.Sprintf("Sent **%s** to %s.", common.FormatCarrots(result.Amount), common.GetUserMention(recipientID)),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Fee", Value: feeLine, Inline: true},
			{Name: "Received", Value: common.FormatCarrots(result.Received), Inline: true},
			{Name: "Your bank", Value: common.FormatCarrots(result.SenderBank), Inline: true},
		},
	}
}

// HistoryEmbed lists recent ledger entries, newest first
func HistoryEmbed(entries []*models.BalanceHistory) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📜 Recent transactions",
		Color: common.ColorInfo,
	}

	if len(entries) == 0 {
		embed.Description = "No transactions yet."
		return embed
	}

	var lines []string
	for _, entry := range entries {
		sign := "+"
		if entry.ChangeAmount < 0 {
			sign = ""
		}
		lines = append(lines, fmt.Sprintf("%s `%s%s` %s · %s",
			common.FormatDiscordTimestamp(entry.CreatedAt, "R"),
			sign, common.FormatBalance(entry.ChangeAmount),
			describeTransaction(entry.TransactionType),
			entry.Pool,
		))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

var transactionLabels = map[models.TransactionType]string{
	models.TransactionTypeInitial:          "Account opened",
	models.TransactionTypeDeposit:          "Deposit",
	models.TransactionTypeWithdraw:         "Withdrawal",
	models.TransactionTypeTransferIn:       "Transfer received",
	models.TransactionTypeTransferOut:      "Transfer sent",
	models.TransactionTypeTransferFee:      "Transfer fee",
	models.TransactionTypePayIn:            "Payment received",
	models.TransactionTypePayOut:           "Payment sent",
	models.TransactionTypeLoanIssued:       "Loan issued",
	models.TransactionTypeLoanRepayment:    "Loan repayment",
	models.TransactionTypePropertyPurchase: "Property purchase",
	models.TransactionTypePropertyIncome:   "Property income",
	models.TransactionTypePropertySale:     "Property sale",
	models.TransactionTypeShopPurchase:     "Shop purchase",
	models.TransactionTypeDaily:            "Daily reward",
	models.TransactionTypeWeekly:           "Weekly reward",
	models.TransactionTypeWork:             "Work",
	models.TransactionTypeRobGain:          "Robbery",
	models.TransactionTypeRobLoss:          "Robbed",
	models.TransactionTypeInterest:         "Interest",
}

func describeTransaction(t models.TransactionType) string {
	if label, ok := transactionLabels[t]; ok {
		return label
	}
	return string(t)
}
