package loans

import (
	"fmt"
	"strings"

	"mikune/bot/common"
	"mikune/config"
	"mikune/models"

	"github.com/bwmarrin/discordgo"
)

// InfoEmbed lists active and overdue loans with their current debt
func InfoEmbed(info *models.LoanInfo, cfg *config.Config) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "💳 Your loans",
		Color: common.ColorInfo,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Loans accrue %s simple interest per day. Minimum loan %s.",
				common.FormatPercent(cfg.LoanInterestRate), common.FormatBalance(cfg.MinLoan)),
		},
	}

	if len(info.Overdue) > 0 {
		embed.Color = common.ColorDanger
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⚠️ Overdue",
			Value: loanLines(info.Overdue, true),
		})
	}
	if len(info.Active) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Active",
			Value: loanLines(info.Active, false),
		})
	}
	if len(info.Active) == 0 && len(info.Overdue) == 0 {
		embed.Description = "You have no outstanding loans."
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Total debt", Value: common.FormatDebt(info.TotalDebt), Inline: true},
		&discordgo.MessageEmbedField{Name: "Loan limit", Value: common.FormatCarrots(info.MaxLoan), Inline: true},
	)
	return embed
}

func loanLines(views []models.LoanView, overdue bool) string {
	lines := make([]string, 0, len(views))
	for _, view := range views {
		var when string
		if overdue {
			when = fmt.Sprintf("%d days overdue", view.DaysOverdue)
		} else {
			when = fmt.Sprintf("%d days left", view.DaysRemaining)
		}
		lines = append(lines, fmt.Sprintf("%s borrowed → **%s** owed · %s",
			common.FormatDebt(view.Loan.Amount), common.FormatDebt(view.CurrentDebt), when))
	}
	return strings.Join(lines, "\n")
}
