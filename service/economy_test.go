package service_test

import (
	"context"
	"testing"
	"time"

	"mikune/config"
	"mikune/events"
	"mikune/models"
	"mikune/repository"
	"mikune/service"

	"github.com/stretchr/testify/require"
)

// testClock is a settable wall clock shared by every service in a harness
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// scriptedRandom replays fixed values. An exhausted script yields zero.
type scriptedRandom struct {
	ints   []int
	floats []float64
}

func (r *scriptedRandom) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		return n - 1
	}
	return v
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// economy wires every service against an in-memory store
type economy struct {
	ctx     context.Context
	clock   *testClock
	rng     *scriptedRandom
	bus     *events.Bus
	store   *repository.MemorySnapshotStore
	factory *repository.LocalUnitOfWorkFactory
	cfg     *config.Config

	accounts   service.AccountService
	ledger     service.LedgerService
	loans      service.LoanService
	properties service.PropertyService
	rewards    service.RewardService
	shop       service.ShopService
}

func newEconomy(t *testing.T) *economy {
	t.Helper()

	e := &economy{
		ctx:   context.Background(),
		clock: &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		rng:   &scriptedRandom{},
		bus:   events.NewBus(),
		store: repository.NewMemorySnapshotStore(),
		cfg:   config.NewTestConfig(),
	}
	e.factory = repository.NewLocalUnitOfWorkFactory(e.store, e.bus)

	opts := []service.Option{service.WithClock(e.clock.Now), service.WithRandom(e.rng)}
	e.accounts = service.NewAccountService(e.factory, nil, opts...)
	e.ledger = service.NewLedgerService(e.factory, e.cfg, opts...)
	e.loans = service.NewLoanService(e.factory, e.cfg, opts...)
	e.properties = service.NewPropertyService(e.factory, e.cfg, opts...)
	e.rewards = service.NewRewardService(e.factory, opts...)
	e.shop = service.NewShopService(e.factory, opts...)
	return e
}

// account builds a defaulted account with the given pools
func account(userID string, balance, bank int64) *models.Account {
	a := service.NewAccount(userID)
	a.Balance = balance
	a.Bank = bank
	return a
}

// seed writes accounts straight to the store
func (e *economy) seed(t *testing.T, accounts ...*models.Account) {
	t.Helper()

	snapshot, err := e.store.Load(e.ctx)
	require.NoError(t, err)
	for _, a := range accounts {
		snapshot[a.UserID] = a
	}
	require.NoError(t, e.store.Save(e.ctx, snapshot))
}

// load reads an account back from the store
func (e *economy) load(t *testing.T, userID string) *models.Account {
	t.Helper()

	snapshot, err := e.store.Load(e.ctx)
	require.NoError(t, err)
	a, ok := snapshot[userID]
	require.True(t, ok, "account %s not stored", userID)
	return a
}

// requireKind asserts err is an economy error of kind
func requireKind(t *testing.T, err error, kind service.ErrorKind) *service.EconomyError {
	t.Helper()

	require.Error(t, err)
	econErr, ok := service.AsEconomyError(err)
	require.True(t, ok, "expected economy error, got %v", err)
	require.Equal(t, kind, econErr.Kind, econErr.Reason)
	return econErr
}
