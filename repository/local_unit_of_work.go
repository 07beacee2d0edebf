package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mikune/events"
	"mikune/models"
	"mikune/service"
)

// maxHistoryPerUser bounds the in-memory ledger kept by snapshot backends
const maxHistoryPerUser = 100

// LocalUnitOfWorkFactory serves units of work over a SnapshotStore. A single
// mutex is held from Begin until Commit or Rollback, so commands run one at a
// time against a private copy of the economy.
type LocalUnitOfWorkFactory struct {
	store    SnapshotStore
	eventBus *events.Bus
	mu       sync.Mutex
	history  *historyLog
}

// NewLocalUnitOfWorkFactory creates a factory for the file or memory backend
func NewLocalUnitOfWorkFactory(store SnapshotStore, eventBus *events.Bus) *LocalUnitOfWorkFactory {
	return &LocalUnitOfWorkFactory{
		store:    store,
		eventBus: eventBus,
		history:  newHistoryLog(maxHistoryPerUser),
	}
}

func (f *LocalUnitOfWorkFactory) Create() service.UnitOfWork {
	return &localUnitOfWork{
		factory:          f,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

type localUnitOfWork struct {
	factory          *LocalUnitOfWorkFactory
	ctx              context.Context
	active           bool
	snapshot         Snapshot
	pendingHistory   []*models.BalanceHistory
	transactionalBus *events.TransactionalBus
	accountRepo      *snapshotAccountRepository
	historyRepo      *snapshotHistoryRepository
}

// Begin takes the store lock and loads a private copy of the economy
func (u *localUnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}

	u.factory.mu.Lock()
	snapshot, err := u.factory.store.Load(ctx)
	if err != nil {
		u.factory.mu.Unlock()
		return fmt.Errorf("failed to load economy: %w", err)
	}

	u.ctx = ctx
	u.active = true
	u.snapshot = snapshot
	u.accountRepo = &snapshotAccountRepository{uow: u}
	u.historyRepo = &snapshotHistoryRepository{uow: u}
	return nil
}

// Commit persists the snapshot, appends ledger entries and flushes events
func (u *localUnitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}
	defer u.release()

	if err := u.factory.store.Save(u.ctx, u.snapshot); err != nil {
		u.transactionalBus.Discard()
		return fmt.Errorf("failed to save economy: %w", err)
	}
	u.factory.history.append(u.pendingHistory...)

	return u.transactionalBus.Flush(u.ctx)
}

// Rollback drops the private copy. It is a no-op after Commit.
func (u *localUnitOfWork) Rollback() error {
	if !u.active {
		return nil
	}
	u.transactionalBus.Discard()
	u.release()
	return nil
}

func (u *localUnitOfWork) release() {
	u.active = false
	u.snapshot = nil
	u.pendingHistory = nil
	u.factory.mu.Unlock()
}

func (u *localUnitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

func (u *localUnitOfWork) BalanceHistoryRepository() service.BalanceHistoryRepository {
	if u.historyRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.historyRepo
}

func (u *localUnitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}

// snapshotAccountRepository reads and writes the unit's private snapshot
type snapshotAccountRepository struct {
	uow *localUnitOfWork
}

func (r *snapshotAccountRepository) Get(_ context.Context, userID string) (*models.Account, error) {
	if !r.uow.active {
		return nil, fmt.Errorf("unit of work is closed")
	}
	return r.uow.snapshot[userID], nil
}

func (r *snapshotAccountRepository) Upsert(_ context.Context, account *models.Account) error {
	if !r.uow.active {
		return fmt.Errorf("unit of work is closed")
	}
	if account.UserID == "" {
		return fmt.Errorf("account has no user id")
	}
	r.uow.snapshot[account.UserID] = account
	return nil
}

func (r *snapshotAccountRepository) List(_ context.Context) ([]*models.Account, error) {
	if !r.uow.active {
		return nil, fmt.Errorf("unit of work is closed")
	}
	accounts := make([]*models.Account, 0, len(r.uow.snapshot))
	for _, account := range r.uow.snapshot {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].UserID < accounts[j].UserID })
	return accounts, nil
}

// snapshotHistoryRepository stages ledger entries until commit
type snapshotHistoryRepository struct {
	uow *localUnitOfWork
}

func (r *snapshotHistoryRepository) Record(_ context.Context, history *models.BalanceHistory) error {
	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now().UTC()
	}
	r.uow.pendingHistory = append(r.uow.pendingHistory, history)
	return nil
}

func (r *snapshotHistoryRepository) GetByUser(_ context.Context, userID string, limit int) ([]*models.BalanceHistory, error) {
	return r.uow.factory.history.byUser(userID, limit), nil
}

// historyLog is a bounded per-user ledger held in memory
type historyLog struct {
	mu      sync.Mutex
	nextID  int64
	limit   int
	entries map[string][]*models.BalanceHistory
}

func newHistoryLog(limit int) *historyLog {
	return &historyLog{limit: limit, entries: make(map[string][]*models.BalanceHistory)}
}

func (h *historyLog) append(entries ...*models.BalanceHistory) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, entry := range entries {
		h.nextID++
		entry.ID = h.nextID
		list := append(h.entries[entry.UserID], entry)
		if len(list) > h.limit {
			list = list[len(list)-h.limit:]
		}
		h.entries[entry.UserID] = list
	}
}

// byUser returns the newest entries first
func (h *historyLog) byUser(userID string, limit int) []*models.BalanceHistory {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.entries[userID]
	result := make([]*models.BalanceHistory, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		result = append(result, list[i])
	}
	return result
}
