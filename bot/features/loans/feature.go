package loans

import (
	"mikune/bot/common"
	"mikune/config"
	"mikune/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the /loan command group
type Feature struct {
	loanService service.LoanService
	config      *config.Config
}

func New(loanService service.LoanService, cfg *config.Config) *Feature {
	return &Feature{
		loanService: loanService,
		config:      cfg,
	}
}

func (f *Feature) Commands() []string {
	return []string{common.CommandLoan}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	sub, options := common.SubCommand(i)
	switch sub {
	case "take":
		return f.handleTake(s, i, options)
	case "repay":
		return f.handleRepay(s, i, options)
	case "info":
		return f.handleInfo(s, i)
	}
	return common.NewUserError("Please choose take, repay or info.", "missing loan subcommand")
}
