package bank

import (
	"mikune/bot/common"
	"mikune/config"
	"mikune/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the bank and wallet commands
type Feature struct {
	accountService service.AccountService
	ledgerService  service.LedgerService
	config         *config.Config
}

func New(accountService service.AccountService, ledgerService service.LedgerService, cfg *config.Config) *Feature {
	return &Feature{
		accountService: accountService,
		ledgerService:  ledgerService,
		config:         cfg,
	}
}

// Commands returns the commands this feature answers
func (f *Feature) Commands() []string {
	return []string{
		common.CommandBalance,
		common.CommandDeposit,
		common.CommandWithdraw,
		common.CommandTransfer,
		common.CommandPay,
		common.CommandHistory,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	switch i.ApplicationCommandData().Name {
	case common.CommandBalance:
		return f.handleBalance(s, i)
	case common.CommandDeposit:
		return f.handleDeposit(s, i)
	case common.CommandWithdraw:
		return f.handleWithdraw(s, i)
	case common.CommandTransfer:
		return f.handleTransfer(s, i)
	case common.CommandPay:
		return f.handlePay(s, i)
	case common.CommandHistory:
		return f.handleHistory(s, i)
	}
	return common.NewUserError("Unknown command.", "unknown bank command")
}
