package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"mikune/models"
)

// DefaultLeaderboardSize is the number of rows shown when no limit is given
const DefaultLeaderboardSize = 10

// ensureAccount loads an account inside uow, creating it or backfilling
// missing fields. The record is persisted only when something changed.
func ensureAccount(ctx context.Context, uow UnitOfWork, userID string, now time.Time) (*models.Account, error) {
	account, err := uow.AccountRepository().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", userID, err)
	}

	if account == nil {
		account = NewAccount(userID)
		if err := uow.AccountRepository().Upsert(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to create account %s: %w", userID, err)
		}
		if err := recordChange(ctx, uow, userID, models.PoolBalance, 0, 0, models.TransactionTypeInitial, map[string]any{
			"created_at": now,
		}); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
		log.WithField("user_id", userID).Info("Created economy account")
		return account, nil
	}

	account.UserID = userID
	if FillDefaults(account) {
		if err := uow.AccountRepository().Upsert(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to backfill account %s: %w", userID, err)
		}
		log.WithFields(log.Fields{
			"user_id":        userID,
			"schema_version": account.SchemaVersion,
		}).Debug("Backfilled account defaults")
	}

	return account, nil
}

// saveAccount persists a mutated account
func saveAccount(ctx context.Context, uow UnitOfWork, account *models.Account) error {
	if err := uow.AccountRepository().Upsert(ctx, account); err != nil {
		return fmt.Errorf("failed to save account %s: %w", account.UserID, err)
	}
	return nil
}

// XPThreshold is the experience needed to leave level
func XPThreshold(level int) int64 {
	return 100 * int64(level)
}

// grantXP adds experience and levels up once when the threshold is reached
func grantXP(account *models.Account, amount int64) (bool, int) {
	account.XP += amount
	needed := XPThreshold(account.Level)
	if account.XP >= needed {
		account.Level++
		account.XP -= needed
		return true, account.Level
	}
	return false, account.Level
}

type accountService struct {
	uowFactory UnitOfWorkFactory
	cache      LeaderboardCache
	opts       options
}

// NewAccountService creates a new account service. cache may be nil.
func NewAccountService(uowFactory UnitOfWorkFactory, cache LeaderboardCache, opts ...Option) AccountService {
	return &accountService{
		uowFactory: uowFactory,
		cache:      cache,
		opts:       buildOptions(opts),
	}
}

func (s *accountService) EnsureUser(ctx context.Context, userID string) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := ensureAccount(ctx, uow, userID, s.opts.now())
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
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
		return NewAccount(userID), nil
	}
	account.UserID = userID
	FillDefaults(account)
	return account, nil
}

func (s *accountService) AddXP(ctx context.Context, userID string, amount int64) (bool, int, error) {
	if amount <= 0 {
		return false, 0, newEconomyError(KindInvalidAmount, "XP amount must be positive.")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := ensureAccount(ctx, uow, userID, s.opts.now())
	if err != nil {
		return false, 0, err
	}

	leveledUp, level := grantXP(account, amount)
	if err := saveAccount(ctx, uow, account); err != nil {
		return false, 0, err
	}

	if err := uow.Commit(); err != nil {
		return false, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return leveledUp, level, nil
}

func (s *accountService) Leaderboard(ctx context.Context, kind models.LeaderboardKind, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx, kind, limit)
		if err != nil {
			log.WithError(err).Warn("Leaderboard cache read failed")
		} else if ok {
			return entries, nil
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	entries := RankAccounts(accounts, kind, limit)

	if s.cache != nil {
		if err := s.cache.Set(ctx, kind, limit, entries); err != nil {
			log.WithError(err).Warn("Leaderboard cache write failed")
		}
	}
	return entries, nil
}

func (s *accountService) History(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	history, err := uow.BalanceHistoryRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	return history, nil
}

// RankAccounts sorts accounts by kind and returns the top limit entries.
// Ties fall back to user id so the order is stable.
func RankAccounts(accounts []*models.Account, kind models.LeaderboardKind, limit int) []models.LeaderboardEntry {
	sorted := make([]*models.Account, 0, len(accounts))
	for _, account := range accounts {
		if account != nil {
			sorted = append(sorted, account)
		}
	}

	key := func(a *models.Account) int64 {
		switch kind {
		case models.LeaderboardByLevel:
			return int64(a.Level)
		case models.LeaderboardByXP:
			return a.XP
		default:
			return a.NetWorth()
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := key(sorted[i]), key(sorted[j])
		if ki != kj {
			return ki > kj
		}
		if kind == models.LeaderboardByLevel && sorted[i].XP != sorted[j].XP {
			return sorted[i].XP > sorted[j].XP
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]models.LeaderboardEntry, len(sorted))
	for i, account := range sorted {
		entries[i] = models.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   account.UserID,
			Level:    account.Level,
			XP:       account.XP,
			Balance:  account.Balance,
			Bank:     account.Bank,
			NetWorth: account.NetWorth(),
		}
	}
	return entries
}
