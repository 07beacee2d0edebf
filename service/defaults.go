package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mikune/models"
)

// NewAccount returns an account with every field at its default
func NewAccount(userID string) *models.Account {
	account := &models.Account{UserID: userID}
	FillDefaults(account)
	return account
}

// schemaMigrations upgrade a record from version i to i+1
var schemaMigrations = []func(*models.Account){
	migrateLegacyRecord,
	migrateLoanIDs,
}

// FillDefaults backfills missing fields and runs pending schema migrations.
// It reports whether the record changed and needs to be persisted.
func FillDefaults(account *models.Account) bool {
	changed := false

	for account.SchemaVersion < len(schemaMigrations) {
		schemaMigrations[account.SchemaVersion](account)
		account.SchemaVersion++
		changed = true
	}

	if account.Inventory == nil {
		account.Inventory = make(map[string]int64)
		changed = true
	}
	if account.Farm.Crops == nil {
		account.Farm.Crops = make(map[string]int64)
		changed = true
	}
	if account.Pets == nil {
		account.Pets = make(map[string]any)
		changed = true
	}
	if account.Level < 1 {
		account.Level = 1
		changed = true
	}
	if account.Perks == nil {
		account.Perks = make(map[string]any)
		changed = true
	}
	if account.Properties == nil {
		account.Properties = make(map[string]models.OwnedProperty)
		changed = true
	}
	if account.Loans == nil {
		account.Loans = []*models.Loan{}
		changed = true
	}
	if account.JobSkills == nil {
		account.JobSkills = make(map[string]int64)
		changed = true
	}
	if account.LastPropertyCollection == nil {
		account.LastPropertyCollection = make(map[string]models.Timestamp)
		changed = true
	}

	return changed
}

// migrateLegacyRecord handles records written before versioning. Old files
// stored zero-count inventory entries and could carry nil loan entries.
func migrateLegacyRecord(account *models.Account) {
	for id, count := range account.Inventory {
		if count <= 0 {
			delete(account.Inventory, id)
		}
	}

	loans := account.Loans[:0]
	for _, loan := range account.Loans {
		if loan == nil {
			continue
		}
		if loan.Status == "" {
			loan.Status = models.LoanStatusActive
		}
		loans = append(loans, loan)
	}
	account.Loans = loans
}

// migrateLoanIDs assigns identifiers to loans created before they had one
func migrateLoanIDs(account *models.Account) {
	for _, loan := range account.Loans {
		if loan.ID == "" {
			loan.ID = uuid.NewString()
		}
	}
}

// newLoan creates an active loan starting at now
func newLoan(amount int64, rate float64, duration time.Duration, now time.Time) *models.Loan {
	return &models.Loan{
		ID:        uuid.NewString(),
		Amount:    decimal.NewFromInt(amount),
		Interest:  decimal.NewFromFloat(rate),
		StartDate: models.Timestamp{Time: now},
		DueDate:   models.Timestamp{Time: now.Add(duration)},
		Status:    models.LoanStatusActive,
	}
}
