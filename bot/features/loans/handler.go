package loans

import (
	"context"
	"fmt"

	"mikune/bot/common"
	"mikune/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleTake(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	opt := common.OptionMap(options)["amount"]
	if opt == nil {
		return common.NewUserError("Please provide an amount.", "missing loan amount")
	}

	userID := common.InteractionUserID(i)
	result, err := f.loanService.IssueLoan(context.Background(), userID, opt.IntValue())
	if err != nil {
		return common.FromServiceError(err, "loan rejected")
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"loan_id": result.Loan.ID,
		"amount":  opt.IntValue(),
	}).Info("Loan issued")

	return common.RespondWithEmbed(s, i, IssuedEmbed(result, f.config.LoanInterestRate), false)
}

func (f *Feature) handleRepay(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	opt := common.OptionMap(options)["amount"]
	if opt == nil {
		return common.NewUserError("Please provide an amount.", "missing repay amount")
	}
	amount, err := models.ParseAmount(opt.StringValue())
	if err != nil {
		return common.NewUserError("The amount must be a positive number or `all`.", "malformed repay amount")
	}

	result, err := f.loanService.RepayLoan(context.Background(), common.InteractionUserID(i), amount)
	if err != nil {
		return common.FromServiceError(err, "repayment rejected")
	}

	return common.RespondWithEmbed(s, i, RepaidEmbed(result), false)
}

func (f *Feature) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	info, err := f.loanService.LoanInfo(context.Background(), common.InteractionUserID(i))
	if err != nil {
		return common.FromServiceError(err, "failed to load loans")
	}

	return common.RespondWithEmbed(s, i, InfoEmbed(info, f.config), true)
}

// IssuedEmbed renders a newly granted loan
func IssuedEmbed(result *models.LoanIssueResult, dailyRate float64) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "💳 Loan approved",
		Description: fmt.Sprintf("**%s** has been added to your wallet.",
			common.FormatDebt(result.Loan.Amount)),
		Color: common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Interest", Value: fmt.Sprintf("%s per day", common.FormatPercent(dailyRate)), Inline: true},
			{Name: "Due", Value: common.FormatDiscordTimestamp(result.Loan.DueDate.Time, "R"), Inline: true},
			{Name: "Total debt", Value: common.FormatDebt(result.TotalDebt), Inline: true},
		},
	}
}

// RepaidEmbed renders the result of a repayment
func RepaidEmbed(result *models.LoanRepayResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "💳 Loan repayment",
		Description: fmt.Sprintf("You paid **%s**.", common.FormatCarrots(result.Paid)),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Loans closed", Value: fmt.Sprintf("%d", result.LoansClosed), Inline: true},
			{Name: "Remaining debt", Value: common.FormatDebt(result.RemainingDebt), Inline: true},
			{Name: "👛 Wallet", Value: common.FormatCarrots(result.Balance), Inline: true},
		},
	}
	if result.RemainingDebt.IsZero() {
		embed.Description += " You are debt free! 🎉"
	}
	return embed
}
