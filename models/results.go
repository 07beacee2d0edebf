package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerResult is returned by deposit and withdraw
type LedgerResult struct {
	Amount  int64
	Balance int64
	Bank    int64
}

// TransferResult represents the outcome of a bank-to-bank transfer
type TransferResult struct {
	Amount             int64
	Fee                int64
	FeePercent         float64
	Received           int64
	CertificateApplied bool
	SenderBank         int64
	RecipientBank      int64
}

// PayResult represents the outcome of a balance-to-balance payment
type PayResult struct {
	Amount           int64
	SenderBalance    int64
	RecipientBalance int64
}

// LoanIssueResult is returned when a loan is granted
type LoanIssueResult struct {
	Loan      *Loan
	Balance   int64
	TotalDebt decimal.Decimal
}

// LoanRepayResult summarizes a repayment walk
type LoanRepayResult struct {
	Paid          int64
	LoansClosed   int
	RemainingDebt decimal.Decimal
	Balance       int64
}

// LoanView is an active loan annotated with its derived state
type LoanView struct {
	Loan          *Loan
	CurrentDebt   decimal.Decimal
	DaysRemaining int64
	DaysOverdue   int64
}

// LoanInfo groups an account's loans by derived state
type LoanInfo struct {
	Active    []LoanView
	Overdue   []LoanView
	Repaid    []*Loan
	TotalDebt decimal.Decimal
	MaxLoan   int64
}

// PropertyPurchaseResult reports how a purchase was paid for
type PropertyPurchaseResult struct {
	Property    Property
	FromBalance int64
	FromBank    int64
	Balance     int64
	Bank        int64
}

// PropertyIncome is income paid out by a single property
type PropertyIncome struct {
	Property Property
	Amount   int64
}

// IncomeCollection sums income collected in one call
type IncomeCollection struct {
	Total     int64
	Collected []PropertyIncome
	Balance   int64
}

// PropertySaleResult is returned when a property is sold back
type PropertySaleResult struct {
	Property Property
	Proceeds int64
	Balance  int64
}

// OwnedPropertyView describes a property owned by an account
type OwnedPropertyView struct {
	Property       Property
	PurchasedAt    time.Time
	NextCollection time.Duration
}

// RewardResult is returned by daily, weekly and work rewards
type RewardResult struct {
	Type      TransactionType
	Base      int64
	Bonus     int64
	Total     int64
	Balance   int64
	XPGained  int64
	LeveledUp bool
	Level     int
}

// RobResult is the outcome of a rob attempt
type RobResult struct {
	Success       bool
	Amount        int64
	ChancePercent float64
	ThiefBalance  int64
}

// InterestResult is returned when bank interest is applied.
// Applied is false when the account was not yet due.
type InterestResult struct {
	Applied bool
	Amount  int64
	Bank    int64
}

// InterestSweepResult summarizes one pass over every account
type InterestSweepResult struct {
	TotalDistributed int64
	AccountsAffected int
	AccountsScanned  int
}

// ShopPurchaseResult is returned by a shop purchase
type ShopPurchaseResult struct {
	Item     ShopItem
	Quantity int64
	Cost     int64
	Balance  int64
	Owned    int64
}
