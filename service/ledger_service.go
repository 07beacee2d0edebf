package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"mikune/config"
	"mikune/events"
	"mikune/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
	opts       options
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, cfg *config.Config, opts ...Option) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		config:     cfg,
		opts:       buildOptions(opts),
	}
}

func (s *ledgerService) Deposit(ctx context.Context, userID string, amount models.Amount) (*models.LedgerResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := ensureAccount(ctx, uow, userID, s.opts.now())
	if err != nil {
		return nil, err
	}

	value := amount.Resolve(account.Balance)
	if value <= 0 {
		return nil, newEconomyError(KindInvalidAmount, "You don't have any money to deposit.")
	}
	if value > account.Balance {
		return nil, newEconomyError(KindInsufficientFunds, "You only have %d on hand.", account.Balance)
	}

	balanceBefore, bankBefore := account.Balance, account.Bank
	account.Balance -= value
	account.Bank += value

	if err := saveAccount(ctx, uow, account); err != nil {
		return nil, err
	}
	if err := s.recordPoolMove(ctx, uow, account, balanceBefore, bankBefore, models.TransactionTypeDeposit); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.LedgerResult{Amount: value, Balance: account.Balance, Bank: account.Bank}, nil
}

func (s *ledgerService) Withdraw(ctx context.Context, userID string, amount models.Amount) (*models.LedgerResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := ensureAccount(ctx, uow, userID, s.opts.now())
	if err != nil {
		return nil, err
	}

	value := amount.Resolve(account.Bank)
	if value <= 0 {
		return nil, newEconomyError(KindInvalidAmount, "You don't have any money in the bank.")
	}
	if value > account.Bank {
		return nil, newEconomyError(KindInsufficientFunds, "You only have %d in the bank.", account.Bank)
	}

	balanceBefore, bankBefore := account.Balance, account.Bank
	account.Bank -= value
	account.Balance += value

	if err := saveAccount(ctx, uow, account); err != nil {
		return nil, err
	}
	if err := s.recordPoolMove(ctx, uow, account, balanceBefore, bankBefore, models.TransactionTypeWithdraw); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.LedgerResult{Amount: value, Balance: account.Balance, Bank: account.Bank}, nil
}

// recordPoolMove records both sides of a move between balance and bank
func (s *ledgerService) recordPoolMove(ctx context.Context, uow UnitOfWork, account *models.Account, balanceBefore, bankBefore int64, txType models.TransactionType) error {
	if err := recordChange(ctx, uow, account.UserID, models.PoolBalance, balanceBefore, account.Balance, txType, nil); err != nil {
		return err
	}
	return recordChange(ctx, uow, account.UserID, models.PoolBank, bankBefore, account.Bank, txType, nil)
}

// TransferFee returns the fee and effective percent for a bank transfer
func TransferFee(amount int64, feePercent float64, hasCertificate bool) (int64, float64) {
	if hasCertificate {
		feePercent /= 2
	}
	fee := decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(feePercent)).Floor().IntPart()
	return fee, feePercent
}

func (s *ledgerService) Transfer(ctx context.Context, senderID, recipientID string, amount int64) (*models.TransferResult, error) {
	if senderID == recipientID {
		return nil, newEconomyError(KindInvalidTarget, "You can't transfer money to yourself.")
	}
	if amount <= 0 {
		return nil, newEconomyError(KindInvalidAmount, "The amount must be positive.")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := s.opts.now()
	sender, err := ensureAccount(ctx, uow, senderID, now)
	if err != nil {
		return nil, err
	}
	if sender.Bank < amount {
		return nil, newEconomyError(KindInsufficientFunds, "You only have %d in the bank.", sender.Bank)
	}

	recipient, err := ensureAccount(ctx, uow, recipientID, now)
	if err != nil {
		return nil, err
	}

	hasCertificate := sender.ItemCount(models.ItemBankCertificate) > 0
	fee, feePercent := TransferFee(amount, s.config.TransferFeePercent, hasCertificate)
	received := amount - fee

	senderBefore, recipientBefore := sender.Bank, recipient.Bank
	sender.Bank -= amount
	recipient.Bank += received

	if err := saveAccount(ctx, uow, sender); err != nil {
		return nil, err
	}
	if err := saveAccount(ctx, uow, recipient); err != nil {
		return nil, err
	}

	if err := recordChange(ctx, uow, senderID, models.PoolBank, senderBefore, senderBefore-received, models.TransactionTypeTransferOut, map[string]any{
		"recipient_id": recipientID,
		"amount":       amount,
	}); err != nil {
		return nil, fmt.Errorf("failed to record sender balance change: %w", err)
	}
	if fee > 0 {
		if err := recordChange(ctx, uow, senderID, models.PoolBank, senderBefore-received, sender.Bank, models.TransactionTypeTransferFee, map[string]any{
			"fee_percent":         feePercent,
			"certificate_applied": hasCertificate,
		}); err != nil {
			return nil, fmt.Errorf("failed to record transfer fee: %w", err)
		}
	}
	if err := recordChange(ctx, uow, recipientID, models.PoolBank, recipientBefore, recipient.Bank, models.TransactionTypeTransferIn, map[string]any{
		"sender_id": senderID,
		"amount":    amount,
	}); err != nil {
		return nil, fmt.Errorf("failed to record recipient balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"sender_id":    senderID,
		"recipient_id": recipientID,
		"amount":       amount,
		"fee":          fee,
	}).Info("Bank transfer completed")

	return &models.TransferResult{
		Amount:             amount,
		Fee:                fee,
		FeePercent:         feePercent,
		Received:           received,
		CertificateApplied: hasCertificate,
		SenderBank:         sender.Bank,
		RecipientBank:      recipient.Bank,
	}, nil
}

func (s *ledgerService) Pay(ctx context.Context, senderID, recipientID string, amount int64) (*models.PayResult, error) {
	if senderID == recipientID {
		return nil, newEconomyError(KindInvalidTarget, "You can't pay yourself.")
	}
	if amount <= 0 {
		return nil, newEconomyError(KindInvalidAmount, "The amount must be positive.")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := s.opts.now()
	sender, err := ensureAccount(ctx, uow, senderID, now)
	if err != nil {
		return nil, err
	}
	if sender.Balance < amount {
		return nil, newEconomyError(KindInsufficientFunds, "You only have %d on hand.", sender.Balance)
	}

	recipient, err := ensureAccount(ctx, uow, recipientID, now)
	if err != nil {
		return nil, err
	}

	senderBefore, recipientBefore := sender.Balance, recipient.Balance
	sender.Balance -= amount
	recipient.Balance += amount

	if err := saveAccount(ctx, uow, sender); err != nil {
		return nil, err
	}
	if err := saveAccount(ctx, uow, recipient); err != nil {
		return nil, err
	}

	if err := recordChange(ctx, uow, senderID, models.PoolBalance, senderBefore, sender.Balance, models.TransactionTypePayOut, map[string]any{
		"recipient_id": recipientID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record sender balance change: %w", err)
	}
	if err := recordChange(ctx, uow, recipientID, models.PoolBalance, recipientBefore, recipient.Balance, models.TransactionTypePayIn, map[string]any{
		"sender_id": senderID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record recipient balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.PayResult{
		Amount:           amount,
		SenderBalance:    sender.Balance,
		RecipientBalance: recipient.Balance,
	}, nil
}

func (s *ledgerService) ApplyInterest(ctx context.Context, userID string) (*models.InterestResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := s.opts.now()
	account, err := ensureAccount(ctx, uow, userID, now)
	if err != nil {
		return nil, err
	}

	result, err := s.applyInterest(ctx, uow, account)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

// SweepInterest applies due interest to every stored account. Each account
// is re-read and updated in its own unit of work so that the row lock covers
// the read as well as the write. Accounts swept before a failure stay
// committed; a rerun skips them through the interest cooldown.
func (s *ledgerService) SweepInterest(ctx context.Context) (*models.InterestSweepResult, error) {
	userIDs, err := s.listUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	sweep := &models.InterestSweepResult{AccountsScanned: len(userIDs)}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("interest sweep interrupted: %w", err)
		}

		result, err := s.sweepAccount(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to apply interest for %s: %w", userID, err)
		}
		if result.Applied && result.Amount > 0 {
			sweep.TotalDistributed += result.Amount
			sweep.AccountsAffected++
		}
	}
	return sweep, nil
}

func (s *ledgerService) listUserIDs(ctx context.Context) ([]string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	userIDs := make([]string, 0, len(accounts))
	for _, account := range accounts {
		userIDs = append(userIDs, account.UserID)
	}
	return userIDs, nil
}

func (s *ledgerService) sweepAccount(ctx context.Context, userID string) (*models.InterestResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", userID, err)
	}
	if account == nil {
		return &models.InterestResult{}, nil
	}
	account.UserID = userID
	FillDefaults(account)

	result, err := s.applyInterest(ctx, uow, account)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

// applyInterest credits daily savings interest when the account is due.
// The marker is stamped even when the bank is empty.
func (s *ledgerService) applyInterest(ctx context.Context, uow UnitOfWork, account *models.Account) (*models.InterestResult, error) {
	now := s.opts.now()
	if CooldownRemaining(account, CooldownInterest, InterestCooldown, now) > 0 {
		return &models.InterestResult{Bank: account.Bank}, nil
	}

	interest := decimal.NewFromInt(account.Bank).Mul(decimal.NewFromFloat(s.config.InterestRate)).Floor().IntPart()
	bankBefore := account.Bank
	account.Bank += interest
	StampCooldown(account, CooldownInterest, now)

	if err := saveAccount(ctx, uow, account); err != nil {
		return nil, err
	}
	if interest > 0 {
		if err := recordChange(ctx, uow, account.UserID, models.PoolBank, bankBefore, account.Bank, models.TransactionTypeInterest, map[string]any{
			"rate": s.config.InterestRate,
		}); err != nil {
			return nil, err
		}
		uow.EventBus().Publish(events.InterestAppliedEvent{UserID: account.UserID, Amount: interest})
	}

	return &models.InterestResult{Applied: true, Amount: interest, Bank: account.Bank}, nil
}
