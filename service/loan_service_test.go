package service_test

import (
	"testing"
	"time"

	"mikune/models"
	"mikune/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoan_Issue(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 200, 1000))
	start := e.clock.Now()

	result, err := e.loans.IssueLoan(e.ctx, "alice", 1000)
	require.NoError(t, err)

	assert.Equal(t, int64(1200), result.Balance)
	assert.True(t, result.TotalDebt.Equal(decimal.NewFromInt(1000)))

	stored := e.load(t, "alice")
	require.Len(t, stored.Loans, 1)
	loan := stored.Loans[0]
	assert.NotEmpty(t, loan.ID)
	assert.Equal(t, models.LoanStatusActive, loan.Status)
	assert.True(t, loan.Amount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, loan.Interest.Equal(decimal.RequireFromString("0.05")))
	assert.True(t, loan.StartDate.Equal(start))
	assert.True(t, loan.DueDate.Equal(start.Add(7*24*time.Hour)))
	assert.Equal(t, int64(1200), stored.Balance)
}

func TestLoan_DebtAccruesDaily(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 1000))

	_, err := e.loans.IssueLoan(e.ctx, "alice", 1000)
	require.NoError(t, err)

	// Partial days do not count
	e.clock.Advance(3*24*time.Hour + 23*time.Hour)

	info, err := e.loans.LoanInfo(e.ctx, "alice")
	require.NoError(t, err)
	assert.True(t, info.TotalDebt.Equal(decimal.NewFromInt(1150)), info.TotalDebt.String())
	require.Len(t, info.Active, 1)
	assert.Equal(t, int64(3), info.Active[0].DaysRemaining)
}

func TestLoan_IssueRejections(t *testing.T) {
	t.Run("below minimum", func(t *testing.T) {
		e := newEconomy(t)
		e.seed(t, account("alice", 0, 100000))

		_, err := e.loans.IssueLoan(e.ctx, "alice", 999)
		econErr := requireKind(t, err, service.KindInvalidAmount)
		assert.Equal(t, "The minimum loan is 1000.", econErr.Reason)
	})

	t.Run("above twice net worth", func(t *testing.T) {
		e := newEconomy(t)
		e.seed(t, account("alice", 0, 1000))

		_, err := e.loans.IssueLoan(e.ctx, "alice", 2500)
		econErr := requireKind(t, err, service.KindLoanLimitExceeded)
		assert.Equal(t, "Your loan limit is 2000 (2x your total balance).", econErr.Reason)
	})

	t.Run("existing debt leaves partial room", func(t *testing.T) {
		e := newEconomy(t)
		e.seed(t, account("alice", 0, 1000))

		_, err := e.loans.IssueLoan(e.ctx, "alice", 1500)
		require.NoError(t, err)

		_, err = e.loans.IssueLoan(e.ctx, "alice", 4000)
		econErr := requireKind(t, err, service.KindLoanLimitExceeded)
		assert.Equal(t, "You can only borrow 3500 more because of your current debt.", econErr.Reason)
	})

	t.Run("existing debt at the limit", func(t *testing.T) {
		e := newEconomy(t)
		a := account("alice", 0, 500)
		a.Loans = append(a.Loans, &models.Loan{
			ID:        "seeded",
			Amount:    decimal.NewFromInt(1000),
			Interest:  decimal.RequireFromString("0.05"),
			StartDate: models.Timestamp{Time: e.clock.Now()},
			DueDate:   models.Timestamp{Time: e.clock.Now().Add(7 * 24 * time.Hour)},
			Status:    models.LoanStatusActive,
		})
		e.seed(t, a)

		_, err := e.loans.IssueLoan(e.ctx, "alice", 1000)
		econErr := requireKind(t, err, service.KindLoanLimitExceeded)
		assert.Equal(t, "You have reached your loan limit.", econErr.Reason)
	})

	t.Run("overdue loan blocks any amount", func(t *testing.T) {
		e := newEconomy(t)
		e.seed(t, account("alice", 0, 100000))

		_, err := e.loans.IssueLoan(e.ctx, "alice", 1000)
		require.NoError(t, err)

		e.clock.Advance(8 * 24 * time.Hour)

		for _, amount := range []int64{1000, 5000} {
			_, err = e.loans.IssueLoan(e.ctx, "alice", amount)
			requireKind(t, err, service.KindOverdueBlock)
		}
		assert.Len(t, e.load(t, "alice").Loans, 1)
	})
}

func TestLoan_RepayAll(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 500, 1000))

	_, err := e.loans.IssueLoan(e.ctx, "alice", 1000)
	require.NoError(t, err)

	e.clock.Advance(2 * 24 * time.Hour)

	result, err := e.loans.RepayLoan(e.ctx, "alice", models.All())
	require.NoError(t, err)
	assert.Equal(t, int64(1100), result.Paid)
	assert.Equal(t, 1, result.LoansClosed)
	assert.True(t, result.RemainingDebt.IsZero())
	assert.Equal(t, int64(400), result.Balance)

	stored := e.load(t, "alice")
	require.Len(t, stored.Loans, 1)
	loan := stored.Loans[0]
	assert.Equal(t, models.LoanStatusRepaid, loan.Status)
	require.NotNil(t, loan.PaidAmount)
	assert.True(t, loan.PaidAmount.Equal(decimal.NewFromInt(1100)))
	require.NotNil(t, loan.RepaidDate)
	assert.True(t, loan.RepaidDate.Equal(e.clock.Now()))
	assert.True(t, service.TotalDebt(stored, e.clock.Now()).IsZero())

	_, err = e.loans.RepayLoan(e.ctx, "alice", models.All())
	requireKind(t, err, service.KindNotFound)
}

func TestLoan_PartialRepaymentWalksLoansInOrder(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 5000))

	_, err := e.loans.IssueLoan(e.ctx, "alice", 1000)
	require.NoError(t, err)
	_, err = e.loans.IssueLoan(e.ctx, "alice", 2000)
	require.NoError(t, err)

	e.clock.Advance(2 * 24 * time.Hour)

	// 1100 closes the first loan, 400 is taken off the second
	result, err := e.loans.RepayLoan(e.ctx, "alice", models.Exact(1500))
	require.NoError(t, err)
	assert.Equal(t, int64(1500), result.Paid)
	assert.Equal(t, 1, result.LoansClosed)
	assert.InDelta(t, 1800, result.RemainingDebt.InexactFloat64(), 0.001)
	assert.Equal(t, int64(1500), result.Balance)

	stored := e.load(t, "alice")
	require.Len(t, stored.Loans, 2)
	assert.Equal(t, models.LoanStatusRepaid, stored.Loans[0].Status)
	assert.Equal(t, models.LoanStatusActive, stored.Loans[1].Status)
	assert.InDelta(t, 1636.3636, stored.Loans[1].Amount.InexactFloat64(), 0.001)
}

func TestLoan_RepayCapsAtTotalDebt(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 5000, 1000))

	_, err := e.loans.IssueLoan(e.ctx, "alice", 1000)
	require.NoError(t, err)

	result, err := e.loans.RepayLoan(e.ctx, "alice", models.Exact(4000))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), result.Paid)
	assert.Equal(t, int64(5000), result.Balance)
}

func TestLoan_RepayDrawsFromBalanceOnly(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 1000))

	_, err := e.loans.IssueLoan(e.ctx, "alice", 1000)
	require.NoError(t, err)
	_, err = e.ledger.Deposit(e.ctx, "alice", models.Exact(500))
	require.NoError(t, err)

	_, err = e.loans.RepayLoan(e.ctx, "alice", models.Exact(600))
	econErr := requireKind(t, err, service.KindInsufficientFunds)
	assert.Equal(t, "You don't have enough money. You need 600.", econErr.Reason)

	stored := e.load(t, "alice")
	assert.Equal(t, int64(500), stored.Balance)
	assert.Equal(t, int64(1500), stored.Bank)
	assert.Equal(t, models.LoanStatusActive, stored.Loans[0].Status)
}

func TestLoan_InfoClassifiesLoans(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 10000))

	_, err := e.loans.IssueLoan(e.ctx, "alice", 1000)
	require.NoError(t, err)

	e.clock.Advance(5 * 24 * time.Hour)
	_, err = e.loans.IssueLoan(e.ctx, "alice", 2000)
	require.NoError(t, err)

	e.clock.Advance(3 * 24 * time.Hour)

	info, err := e.loans.LoanInfo(e.ctx, "alice")
	require.NoError(t, err)

	require.Len(t, info.Overdue, 1)
	assert.Equal(t, int64(1), info.Overdue[0].DaysOverdue)
	assert.True(t, info.Overdue[0].CurrentDebt.Equal(decimal.NewFromInt(1400)))

	require.Len(t, info.Active, 1)
	assert.Equal(t, int64(4), info.Active[0].DaysRemaining)
	assert.True(t, info.Active[0].CurrentDebt.Equal(decimal.NewFromInt(2300)))

	assert.Empty(t, info.Repaid)
	assert.True(t, info.TotalDebt.Equal(decimal.NewFromInt(3700)))
	assert.Equal(t, int64(2*(3000+10000)), info.MaxLoan)
}

// Scenario: borrowed money parked in the bank cannot service the loan.
// The bank starts at 500 so the 1000 loan fits under the 2x net worth cap.
func TestLoan_DepositedLoanCannotBeRepaidFromBank(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 500))

	issued, err := e.loans.IssueLoan(e.ctx, "alice", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), issued.Balance)

	deposited, err := e.ledger.Deposit(e.ctx, "alice", models.Exact(1000))
	require.NoError(t, err)
	assert.Equal(t, int64(0), deposited.Balance)
	assert.Equal(t, int64(1500), deposited.Bank)

	e.clock.Advance(7 * 24 * time.Hour)

	info, err := e.loans.LoanInfo(e.ctx, "alice")
	require.NoError(t, err)
	assert.True(t, info.TotalDebt.Equal(decimal.NewFromInt(1350)), info.TotalDebt.String())

	_, err = e.loans.RepayLoan(e.ctx, "alice", models.Exact(1350))
	requireKind(t, err, service.KindInsufficientFunds)

	stored := e.load(t, "alice")
	assert.Equal(t, int64(1500), stored.Bank)
	assert.Equal(t, int64(0), stored.Balance)
}
