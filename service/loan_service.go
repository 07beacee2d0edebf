package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"mikune/config"
	"mikune/events"
	"mikune/models"
)

type loanService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
	opts       options
}

// NewLoanService creates a new loan service
func NewLoanService(uowFactory UnitOfWorkFactory, cfg *config.Config, opts ...Option) LoanService {
	return &loanService{
		uowFactory: uowFactory,
		config:     cfg,
		opts:       buildOptions(opts),
	}
}

// TotalDebt sums the current debt of every active loan
func TotalDebt(account *models.Account, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, loan := range account.ActiveLoans() {
		total = total.Add(loan.CurrentDebt(now))
	}
	return total
}

// hasOverdueLoan reports whether any active loan is past due
func hasOverdueLoan(account *models.Account, now time.Time) bool {
	for _, loan := range account.ActiveLoans() {
		if loan.IsOverdue(now) {
			return true
		}
	}
	return false
}

// maxLoan is the borrowing cap derived from net worth
func (s *loanService) maxLoan(account *models.Account) int64 {
	return account.NetWorth() * s.config.MaxLoanMultiplier
}

func (s *loanService) IssueLoan(ctx context.Context, userID string, amount int64) (*models.LoanIssueResult, error) {
	if amount < s.config.MinLoan {
		return nil, newEconomyError(KindInvalidAmount, "The minimum loan is %d.", s.config.MinLoan)
	}

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

	if hasOverdueLoan(account, now) {
		return nil, newEconomyError(KindOverdueBlock, "You can't take a new loan while you have overdue loans.")
	}

	maxLoan := s.maxLoan(account)
	if amount > maxLoan {
		return nil, newEconomyError(KindLoanLimitExceeded, "Your loan limit is %d (%dx your total balance).", maxLoan, s.config.MaxLoanMultiplier)
	}

	totalDebt := TotalDebt(account, now)
	if totalDebt.Add(decimal.NewFromInt(amount)).GreaterThan(decimal.NewFromInt(maxLoan)) {
		remaining := decimal.NewFromInt(maxLoan).Sub(totalDebt)
		if !remaining.IsPositive() {
			return nil, newEconomyError(KindLoanLimitExceeded, "You have reached your loan limit.")
		}
		return nil, newEconomyError(KindLoanLimitExceeded, "You can only borrow %s more because of your current debt.", remaining.Floor().String())
	}

	loan := newLoan(amount, s.config.LoanInterestRate, s.config.LoanDuration, now)
	account.Loans = append(account.Loans, loan)
	balanceBefore := account.Balance
	account.Balance += amount

	if err := saveAccount(ctx, uow, account); err != nil {
		return nil, err
	}
	if err := recordChange(ctx, uow, userID, models.PoolBalance, balanceBefore, account.Balance, models.TransactionTypeLoanIssued, map[string]any{
		"loan_id":  loan.ID,
		"interest": s.config.LoanInterestRate,
		"due_date": loan.DueDate.Time,
	}); err != nil {
		return nil, err
	}
	uow.EventBus().Publish(events.LoanIssuedEvent{
		UserID:  userID,
		LoanID:  loan.ID,
		Amount:  amount,
		DueDate: loan.DueDate.Time,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"loan_id": loan.ID,
		"amount":  amount,
	}).Info("Loan issued")

	return &models.LoanIssueResult{
		Loan:      loan,
		Balance:   account.Balance,
		TotalDebt: totalDebt.Add(decimal.NewFromInt(amount)),
	}, nil
}

func (s *loanService) RepayLoan(ctx context.Context, userID string, amount models.Amount) (*models.LoanRepayResult, error) {
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

	if len(account.ActiveLoans()) == 0 {
		return nil, newEconomyError(KindNotFound, "You don't have any outstanding loans.")
	}

	totalDebt := TotalDebt(account, now)
	var payment decimal.Decimal
	if amount.IsAll() {
		payment = totalDebt
	} else {
		payment = decimal.NewFromInt(amount.Resolve(0))
	}
	if !payment.IsPositive() {
		return nil, newEconomyError(KindInvalidAmount, "The amount must be greater than 0.")
	}
	if payment.GreaterThan(totalDebt) {
		payment = totalDebt
	}
	if decimal.NewFromInt(account.Balance).LessThan(payment) {
		return nil, newEconomyError(KindInsufficientFunds, "You don't have enough money. You need %s.", payment.Floor().String())
	}

	balanceBefore := account.Balance
	account.Balance -= payment.Floor().IntPart()

	remaining := payment
	closed := 0
	for _, loan := range account.ActiveLoans() {
		debt := loan.CurrentDebt(now)
		if remaining.GreaterThanOrEqual(debt) {
			loan.MarkRepaid(debt, now)
			remaining = remaining.Sub(debt)
			closed++
			continue
		}
		loan.ReducePrincipal(remaining, now)
		remaining = decimal.Zero
		break
	}

	remainingDebt := TotalDebt(account, now)
	paid := balanceBefore - account.Balance

	if err := saveAccount(ctx, uow, account); err != nil {
		return nil, err
	}
	if err := recordChange(ctx, uow, userID, models.PoolBalance, balanceBefore, account.Balance, models.TransactionTypeLoanRepayment, map[string]any{
		"loans_closed":   closed,
		"remaining_debt": remainingDebt.String(),
	}); err != nil {
		return nil, err
	}
	uow.EventBus().Publish(events.LoanRepaidEvent{
		UserID:        userID,
		Paid:          paid,
		LoansClosed:   closed,
		RemainingDebt: remainingDebt.String(),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.LoanRepayResult{
		Paid:          paid,
		LoansClosed:   closed,
		RemainingDebt: remainingDebt,
		Balance:       account.Balance,
	}, nil
}

func (s *loanService) LoanInfo(ctx context.Context, userID string) (*models.LoanInfo, error) {
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

	info := BuildLoanInfo(account, now)
	info.MaxLoan = s.maxLoan(account)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return info, nil
}

// BuildLoanInfo groups loans by derived state
func BuildLoanInfo(account *models.Account, now time.Time) *models.LoanInfo {
	info := &models.LoanInfo{TotalDebt: decimal.Zero}
	for _, loan := range account.Loans {
		switch loan.Status {
		case models.LoanStatusActive:
			view := models.LoanView{Loan: loan, CurrentDebt: loan.CurrentDebt(now)}
			info.TotalDebt = info.TotalDebt.Add(view.CurrentDebt)
			if loan.IsOverdue(now) {
				view.DaysOverdue = wholeDays(now.Sub(loan.DueDate.Time))
				info.Overdue = append(info.Overdue, view)
			} else {
				view.DaysRemaining = wholeDays(loan.DueDate.Sub(now))
				info.Active = append(info.Active, view)
			}
		case models.LoanStatusRepaid:
			info.Repaid = append(info.Repaid, loan)
		}
	}
	return info
}

func wholeDays(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / (24 * time.Hour))
}
