package testutil

import (
	"time"

	"mikune/models"
)

// CreateTestAccount creates an account with every map initialized
func CreateTestAccount(userID string, balance, bank int64) *models.Account {
	return &models.Account{
		UserID:                 userID,
		SchemaVersion:          models.CurrentSchemaVersion,
		Balance:                balance,
		Bank:                   bank,
		Level:                  1,
		Inventory:              map[string]int64{},
		Farm:                   models.Farm{Crops: map[string]int64{}},
		Pets:                   map[string]any{},
		Perks:                  map[string]any{},
		Properties:             map[string]models.OwnedProperty{},
		Loans:                  []*models.Loan{},
		JobSkills:              map[string]int64{},
		LastPropertyCollection: map[string]models.Timestamp{},
	}
}

// CreateTestBalanceHistory creates a ledger entry for userID
func CreateTestBalanceHistory(userID string, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		UserID:          userID,
		Pool:            models.PoolBalance,
		BalanceBefore:   1000,
		BalanceAfter:    900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestInterestRun creates an interest run for the given date
func CreateTestInterestRun(runDate time.Time) *models.InterestRun {
	return &models.InterestRun{
		RunDate:                  runDate,
		TotalInterestDistributed: 5000,
		AccountsAffected:         10,
		ExecutionSummary: map[string]any{
			"accounts_scanned": 25,
			"rate":             0.02,
		},
	}
}
