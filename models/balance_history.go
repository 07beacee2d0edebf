package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial          TransactionType = "initial"
	TransactionTypeDeposit          TransactionType = "deposit"
	TransactionTypeWithdraw         TransactionType = "withdraw"
	TransactionTypeTransferIn       TransactionType = "transfer_in"
	TransactionTypeTransferOut      TransactionType = "transfer_out"
	TransactionTypeTransferFee      TransactionType = "transfer_fee"
	TransactionTypePayIn            TransactionType = "pay_in"
	TransactionTypePayOut           TransactionType = "pay_out"
	TransactionTypeLoanIssued       TransactionType = "loan_issued"
	TransactionTypeLoanRepayment    TransactionType = "loan_repayment"
	TransactionTypePropertyPurchase TransactionType = "property_purchase"
	TransactionTypePropertyIncome   TransactionType = "property_income"
	TransactionTypePropertySale     TransactionType = "property_sale"
	TransactionTypeShopPurchase     TransactionType = "shop_purchase"
	TransactionTypeDaily            TransactionType = "daily"
	TransactionTypeWeekly           TransactionType = "weekly"
	TransactionTypeWork             TransactionType = "work"
	TransactionTypeRobGain          TransactionType = "rob_gain"
	TransactionTypeRobLoss          TransactionType = "rob_loss"
	TransactionTypeInterest         TransactionType = "interest"
)

// Pool identifies which side of the account a change applies to
type Pool string

const (
	PoolBalance Pool = "balance"
	PoolBank    Pool = "bank"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	UserID              string          `db:"user_id"`
	Pool                Pool            `db:"pool"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}
