package service

import (
	"context"
	"time"

	"mikune/events"
	"mikune/models"
)

// AccountRepository is the persistence boundary for account records
type AccountRepository interface {
	// Get retrieves an account, returning nil when it does not exist
	Get(ctx context.Context, userID string) (*models.Account, error)

	// Upsert creates or fully replaces an account
	Upsert(ctx context.Context, account *models.Account) error

	// List returns every stored account
	List(ctx context.Context) ([]*models.Account, error)
}

// BalanceHistoryRepository defines the interface for ledger entry tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns the most recent entries for a user
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error)
}

// InterestRunRepository tracks daily interest sweeps
type InterestRunRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*models.InterestRun, error)
	Create(ctx context.Context, run *models.InterestRun) error
	GetLatest(ctx context.Context) (*models.InterestRun, error)
}

// LeaderboardCache stores computed leaderboards between account changes
type LeaderboardCache interface {
	Get(ctx context.Context, kind models.LeaderboardKind, limit int) ([]models.LeaderboardEntry, bool, error)
	Set(ctx context.Context, kind models.LeaderboardKind, limit int, entries []models.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// AccountService covers account lifecycle and progression
type AccountService interface {
	// EnsureUser returns the account for userID, creating or backfilling it as needed
	EnsureUser(ctx context.Context, userID string) (*models.Account, error)

	// GetAccount returns a defaulted view of an account without persisting anything
	GetAccount(ctx context.Context, userID string) (*models.Account, error)

	// AddXP grants experience and reports whether the account leveled up
	AddXP(ctx context.Context, userID string, amount int64) (leveledUp bool, level int, err error)

	// Leaderboard ranks accounts by the given key
	Leaderboard(ctx context.Context, kind models.LeaderboardKind, limit int) ([]models.LeaderboardEntry, error)

	// History returns recent ledger entries for a user
	History(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error)
}

// LedgerService moves currency between pools and accounts
type LedgerService interface {
	Deposit(ctx context.Context, userID string, amount models.Amount) (*models.LedgerResult, error)
	Withdraw(ctx context.Context, userID string, amount models.Amount) (*models.LedgerResult, error)
	Transfer(ctx context.Context, senderID, recipientID string, amount int64) (*models.TransferResult, error)
	Pay(ctx context.Context, senderID, recipientID string, amount int64) (*models.PayResult, error)
	ApplyInterest(ctx context.Context, userID string) (*models.InterestResult, error)
	SweepInterest(ctx context.Context) (*models.InterestSweepResult, error)
}

// LoanService issues and settles loans
type LoanService interface {
	IssueLoan(ctx context.Context, userID string, amount int64) (*models.LoanIssueResult, error)
	RepayLoan(ctx context.Context, userID string, amount models.Amount) (*models.LoanRepayResult, error)
	LoanInfo(ctx context.Context, userID string) (*models.LoanInfo, error)
}

// PropertyService buys, sells and collects from properties
type PropertyService interface {
	CanAfford(ctx context.Context, userID, propertyID string) error
	Buy(ctx context.Context, userID, propertyID string) (*models.PropertyPurchaseResult, error)
	CollectIncome(ctx context.Context, userID string) (*models.IncomeCollection, error)
	Sell(ctx context.Context, userID, propertyID string) (*models.PropertySaleResult, error)
	ListOwned(ctx context.Context, userID string) ([]models.OwnedPropertyView, error)
}

// RewardService pays out cooldown-gated rewards
type RewardService interface {
	Daily(ctx context.Context, userID string) (*models.RewardResult, error)
	Weekly(ctx context.Context, userID string) (*models.RewardResult, error)
	Work(ctx context.Context, userID string) (*models.RewardResult, error)
	Rob(ctx context.Context, thiefID, targetID string) (*models.RobResult, error)
	SetJob(ctx context.Context, userID, jobID string) (*models.Job, error)
}

// ShopService sells catalog items
type ShopService interface {
	BuyItem(ctx context.Context, userID, itemID string, quantity int64) (*models.ShopPurchaseResult, error)
}
