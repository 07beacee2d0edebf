package repository

import (
	"context"
	"testing"
	"time"

	"mikune/config"
	"mikune/events"
	"mikune/models"
	"mikune/repository/testutil"
	"mikune/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterestSweep_WaitsForInFlightDeposit(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewAccountRepository(testDB.DB)
	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestAccount("alice", 500, 1000)))
	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestAccount("bob", 0, 100)))

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ledger := service.NewLedgerService(factory, config.NewTestConfig())

	// A deposit holds alice's row lock while the sweep starts
	deposit := factory.Create()
	require.NoError(t, deposit.Begin(ctx))
	defer deposit.Rollback()

	account, err := deposit.AccountRepository().Get(ctx, "alice")
	require.NoError(t, err)
	account.Balance -= 500
	account.Bank += 500
	require.NoError(t, deposit.AccountRepository().Upsert(ctx, account))

	type sweepOutcome struct {
		result *models.InterestSweepResult
		err    error
	}
	done := make(chan sweepOutcome, 1)
	go func() {
		result, err := ledger.SweepInterest(ctx)
		done <- sweepOutcome{result: result, err: err}
	}()

	select {
	case <-done:
		t.Fatal("sweep finished while alice's row was locked")
	case <-time.After(500 * time.Millisecond):
	}

	require.NoError(t, deposit.Commit())

	var outcome sweepOutcome
	select {
	case outcome = <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("sweep did not finish after the deposit committed")
	}
	require.NoError(t, outcome.err)
	assert.Equal(t, 2, outcome.result.AccountsScanned)
	assert.Equal(t, int64(30+2), outcome.result.TotalDistributed)

	alice, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, alice.Balance)
	assert.Equal(t, int64(1530), alice.Bank)
	require.NotNil(t, alice.LastInterest)

	bob, err := repo.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(102), bob.Bank)
}
