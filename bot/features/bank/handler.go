package bank

import (
	"context"

	"mikune/bot/common"
	"mikune/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID := common.InteractionUserID(i)
	targetID := userID

	if opt := common.OptionMap(i.ApplicationCommandData().Options)["user"]; opt != nil {
		targetID = opt.UserValue(nil).ID
	}

	var interest *models.InterestResult
	var account *models.Account
	var err error

	if targetID == userID {
		// Opening your own bank view pays out any interest that is due
		interest, err = f.ledgerService.ApplyInterest(ctx, userID)
		if err != nil {
			return common.FromServiceError(err, "failed to apply interest")
		}
		account, err = f.accountService.EnsureUser(ctx, userID)
	} else {
		account, err = f.accountService.GetAccount(ctx, targetID)
	}
	if err != nil {
		return common.FromServiceError(err, "failed to load account")
	}

	name := common.GetDisplayName(s, i.GuildID, targetID)
	return common.RespondWithEmbed(s, i, BalanceEmbed(name, account, interest, f.config.InterestRate), false)
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	amount, err := amountOption(i)
	if err != nil {
		return err
	}

	result, err := f.ledgerService.Deposit(context.Background(), common.InteractionUserID(i), amount)
	if err != nil {
		return common.FromServiceError(err, "deposit failed")
	}

	return common.RespondWithEmbed(s, i, LedgerEmbed("🏦 Deposit", "Deposited", result), false)
}

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	amount, err := amountOption(i)
	if err != nil {
		return err
	}

	result, err := f.ledgerService.Withdraw(context.Background(), common.InteractionUserID(i), amount)
	if err != nil {
		return common.FromServiceError(err, "withdraw failed")
	}

	return common.RespondWithEmbed(s, i, LedgerEmbed("💸 Withdrawal", "Withdrew", result), false)
}

func (f *Feature) handleTransfer(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	recipient, amount, err := recipientAndAmount(i)
	if err != nil {
		return err
	}

	result, err := f.ledgerService.Transfer(context.Background(), common.InteractionUserID(i), recipient.ID, amount)
	if err != nil {
		return common.FromServiceError(err, "transfer failed")
	}

	log.WithFields(log.Fields{
		"sender":    common.InteractionUserID(i),
		"recipient": recipient.ID,
		"amount":    amount,
		"fee":       result.Fee,
	}).Info("Bank transfer completed")

	return common.RespondWithEmbed(s, i, TransferEmbed(recipient.ID, result), false)
}

func (f *Feature) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	recipient, amount, err := recipientAndAmount(i)
	if err != nil {
		return err
	}

	result, err := f.ledgerService.Pay(context.Background(), common.InteractionUserID(i), recipient.ID, amount)
	if err != nil {
		return common.FromServiceError(err, "payment failed")
	}

	return common.RespondWithSuccess(s, i,
		"Paid **"+common.FormatCarrots(result.Amount)+"** to "+common.GetUserMention(recipient.ID)+
			". Your wallet: **"+common.FormatCarrots(result.SenderBalance)+"**", false)
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	entries, err := f.accountService.History(context.Background(), common.InteractionUserID(i), common.HistoryPageSize)
	if err != nil {
		return common.FromServiceError(err, "failed to load history")
	}

	return common.RespondWithEmbed(s, i, HistoryEmbed(entries), true)
}

func amountOption(i *discordgo.InteractionCreate) (models.Amount, error) {
	opt := common.OptionMap(i.ApplicationCommandData().Options)["amount"]
	if opt == nil {
		return models.Amount{}, common.NewUserError("Please provide an amount.", "missing amount option")
	}

	amount, err := models.ParseAmount(opt.StringValue())
	if err != nil {
		return models.Amount{}, common.NewUserError("The amount must be a positive number or `all`.", "malformed amount")
	}
	return amount, nil
}

func recipientAndAmount(i *discordgo.InteractionCreate) (*discordgo.User, int64, error) {
	options := common.OptionMap(i.ApplicationCommandData().Options)
	userOpt, amountOpt := options["user"], options["amount"]
	if userOpt == nil || amountOpt == nil {
		return nil, 0, common.NewUserError("Please provide both a user and an amount.", "missing transfer options")
	}

	recipient := userOpt.UserValue(nil)
	if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
		if user, ok := resolved.Users[recipient.ID]; ok {
			recipient = user
		}
	}
	if recipient.Bot {
		return nil, 0, common.NewUserError("Bots don't have a bank account.", "transfer to bot")
	}

	return recipient, amountOpt.IntValue(), nil
}
