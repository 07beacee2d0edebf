package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusRepaid LoanStatus = "repaid"
)

// Loan is a debt record with simple daily interest
type Loan struct {
	ID         string           `json:"id,omitempty"`
	Amount     decimal.Decimal  `json:"amount"`
	Interest   decimal.Decimal  `json:"interest"`
	StartDate  Timestamp        `json:"start_date"`
	DueDate    Timestamp        `json:"due_date"`
	Status     LoanStatus       `json:"status"`
	PaidAmount *decimal.Decimal `json:"paid_amount,omitempty"`
	RepaidDate *Timestamp       `json:"repaid_date,omitempty"`
}

// DaysElapsed returns whole days since the loan started, never negative
func (l *Loan) DaysElapsed(now time.Time) int64 {
	elapsed := now.Sub(l.StartDate.Time)
	if elapsed <= 0 {
		return 0
	}
	return int64(elapsed / (24 * time.Hour))
}

// growthFactor is 1 + interest * days_elapsed
func (l *Loan) growthFactor(now time.Time) decimal.Decimal {
	days := decimal.NewFromInt(l.DaysElapsed(now))
	return decimal.NewFromInt(1).Add(l.Interest.Mul(days))
}

// CurrentDebt computes principal * (1 + interest * days_elapsed)
func (l *Loan) CurrentDebt(now time.Time) decimal.Decimal {
	return l.Amount.Mul(l.growthFactor(now))
}

// ReducePrincipal applies a partial payment against the principal so that the
// debt drops by exactly payment under the simple-interest model
func (l *Loan) ReducePrincipal(payment decimal.Decimal, now time.Time) {
	l.Amount = l.Amount.Sub(payment.Div(l.growthFactor(now)))
}

// MarkRepaid closes the loan
func (l *Loan) MarkRepaid(paid decimal.Decimal, now time.Time) {
	l.Status = LoanStatusRepaid
	l.PaidAmount = &paid
	l.RepaidDate = NewTimestamp(now)
}

// IsOverdue reports whether an active loan has passed its due date
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.Status == LoanStatusActive && now.After(l.DueDate.Time)
}
