package service_test

import (
	"testing"
	"time"

	"mikune/models"
	"mikune/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_DepositWithdrawRoundTrip(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 500, 0))

	deposited, err := e.ledger.Deposit(e.ctx, "alice", models.Exact(200))
	require.NoError(t, err)
	assert.Equal(t, int64(300), deposited.Balance)
	assert.Equal(t, int64(200), deposited.Bank)

	withdrawn, err := e.ledger.Withdraw(e.ctx, "alice", models.Exact(200))
	require.NoError(t, err)
	assert.Equal(t, int64(500), withdrawn.Balance)
	assert.Equal(t, int64(0), withdrawn.Bank)

	stored := e.load(t, "alice")
	assert.Equal(t, int64(500), stored.Balance)
	assert.Equal(t, int64(0), stored.Bank)
}

func TestLedger_DepositAll(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 750, 250))

	result, err := e.ledger.Deposit(e.ctx, "alice", models.All())
	require.NoError(t, err)
	assert.Equal(t, int64(750), result.Amount)
	assert.Equal(t, int64(0), result.Balance)
	assert.Equal(t, int64(1000), result.Bank)

	result, err = e.ledger.Withdraw(e.ctx, "alice", models.All())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), result.Amount)
	assert.Equal(t, int64(1000), result.Balance)
}

func TestLedger_DepositWithdrawRejections(t *testing.T) {
	tests := []struct {
		name string
		run  func(e *economy) error
		kind service.ErrorKind
	}{
		{
			name: "deposit all with empty balance",
			run: func(e *economy) error {
				_, err := e.ledger.Deposit(e.ctx, "alice", models.All())
				return err
			},
			kind: service.KindInvalidAmount,
		},
		{
			name: "deposit more than balance",
			run: func(e *economy) error {
				_, err := e.ledger.Deposit(e.ctx, "bob", models.Exact(101))
				return err
			},
			kind: service.KindInsufficientFunds,
		},
		{
			name: "withdraw more than bank",
			run: func(e *economy) error {
				_, err := e.ledger.Withdraw(e.ctx, "bob", models.Exact(51))
				return err
			},
			kind: service.KindInsufficientFunds,
		},
		{
			name: "withdraw all from empty bank",
			run: func(e *economy) error {
				_, err := e.ledger.Withdraw(e.ctx, "alice", models.All())
				return err
			},
			kind: service.KindInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEconomy(t)
			e.seed(t, account("alice", 0, 0), account("bob", 100, 50))

			requireKind(t, tt.run(e), tt.kind)

			bob := e.load(t, "bob")
			assert.Equal(t, int64(100), bob.Balance)
			assert.Equal(t, int64(50), bob.Bank)
		})
	}
}

func TestLedger_TransferFee(t *testing.T) {
	tests := []struct {
		name         string
		certificate  bool
		wantFee      int64
		wantReceived int64
	}{
		{name: "standard fee", certificate: false, wantFee: 10, wantReceived: 990},
		{name: "bank certificate halves the fee", certificate: true, wantFee: 5, wantReceived: 995},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEconomy(t)
			sender := account("alice", 0, 1000)
			if tt.certificate {
				sender.Inventory[models.ItemBankCertificate] = 1
			}
			e.seed(t, sender, account("bob", 0, 0))

			result, err := e.ledger.Transfer(e.ctx, "alice", "bob", 1000)
			require.NoError(t, err)

			assert.Equal(t, tt.wantFee, result.Fee)
			assert.Equal(t, tt.wantReceived, result.Received)
			assert.Equal(t, tt.certificate, result.CertificateApplied)
			assert.Equal(t, int64(0), result.SenderBank)
			assert.Equal(t, tt.wantReceived, result.RecipientBank)

			assert.Equal(t, int64(0), e.load(t, "alice").Bank)
			assert.Equal(t, tt.wantReceived, e.load(t, "bob").Bank)
		})
	}
}

func TestLedger_TransferRecordsFeeSeparately(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 1000), account("bob", 0, 0))

	_, err := e.ledger.Transfer(e.ctx, "alice", "bob", 1000)
	require.NoError(t, err)

	history, err := e.accounts.History(e.ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	fee, out := history[0], history[1]
	assert.Equal(t, models.TransactionTypeTransferFee, fee.TransactionType)
	assert.Equal(t, int64(-10), fee.ChangeAmount)
	assert.Equal(t, models.TransactionTypeTransferOut, out.TransactionType)
	assert.Equal(t, int64(-990), out.ChangeAmount)
	assert.Equal(t, out.BalanceAfter, fee.BalanceBefore)
}

func TestLedger_TransferRejections(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 5000, 100), account("bob", 0, 0))

	_, err := e.ledger.Transfer(e.ctx, "alice", "alice", 10)
	requireKind(t, err, service.KindInvalidTarget)

	_, err = e.ledger.Transfer(e.ctx, "alice", "bob", 0)
	requireKind(t, err, service.KindInvalidAmount)

	// On-hand money does not count toward a bank transfer
	_, err = e.ledger.Transfer(e.ctx, "alice", "bob", 101)
	requireKind(t, err, service.KindInsufficientFunds)

	assert.Equal(t, int64(100), e.load(t, "alice").Bank)
}

func TestLedger_Pay(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 300, 0))

	result, err := e.ledger.Pay(e.ctx, "alice", "carol", 120)
	require.NoError(t, err)
	assert.Equal(t, int64(180), result.SenderBalance)
	assert.Equal(t, int64(120), result.RecipientBalance)

	// The recipient account is created on demand
	carol := e.load(t, "carol")
	assert.Equal(t, int64(120), carol.Balance)
	assert.Equal(t, models.CurrentSchemaVersion, carol.SchemaVersion)

	_, err = e.ledger.Pay(e.ctx, "alice", "carol", 181)
	requireKind(t, err, service.KindInsufficientFunds)

	_, err = e.ledger.Pay(e.ctx, "alice", "alice", 1)
	requireKind(t, err, service.KindInvalidTarget)
}

func TestLedger_ApplyInterest(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 1000))

	result, err := e.ledger.ApplyInterest(e.ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, int64(20), result.Amount)
	assert.Equal(t, int64(1020), result.Bank)

	e.clock.Advance(23 * time.Hour)
	result, err = e.ledger.ApplyInterest(e.ctx, "alice")
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, int64(1020), e.load(t, "alice").Bank)

	e.clock.Advance(time.Hour)
	result, err = e.ledger.ApplyInterest(e.ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, int64(20), result.Amount)
}

func TestLedger_ApplyInterestStampsEmptyBank(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 0))

	result, err := e.ledger.ApplyInterest(e.ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Zero(t, result.Amount)

	stored := e.load(t, "alice")
	require.NotNil(t, stored.LastInterest)
	assert.True(t, stored.LastInterest.Equal(e.clock.Now()))

	history, err := e.accounts.History(e.ctx, "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestLedger_SweepInterest(t *testing.T) {
	e := newEconomy(t)
	alreadyPaid := account("carol", 0, 5000)
	alreadyPaid.LastInterest = models.NewTimestamp(e.clock.Now().Add(-time.Hour))
	e.seed(t,
		account("alice", 0, 1000),
		account("bob", 0, 2550),
		account("dave", 100, 0),
		alreadyPaid,
	)

	sweep, err := e.ledger.SweepInterest(e.ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, sweep.AccountsScanned)
	assert.Equal(t, 2, sweep.AccountsAffected)
	assert.Equal(t, int64(20+51), sweep.TotalDistributed)

	assert.Equal(t, int64(1020), e.load(t, "alice").Bank)
	assert.Equal(t, int64(2601), e.load(t, "bob").Bank)
	assert.Equal(t, int64(5000), e.load(t, "carol").Bank)
	assert.NotNil(t, e.load(t, "dave").LastInterest)
}

// interleavingFactory runs a hook before handing out each unit of work
type interleavingFactory struct {
	service.UnitOfWorkFactory
	created  int
	onCreate func(n int)
}

func (f *interleavingFactory) Create() service.UnitOfWork {
	f.created++
	if f.onCreate != nil {
		f.onCreate(f.created)
	}
	return f.UnitOfWorkFactory.Create()
}

func TestLedger_SweepInterestKeepsConcurrentDeposit(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 500, 1000), account("bob", 0, 100))

	// The first unit lists accounts. A deposit lands before alice's own
	// unit begins, as a concurrent command would on PostgreSQL.
	factory := &interleavingFactory{UnitOfWorkFactory: e.factory}
	factory.onCreate = func(n int) {
		if n == 2 {
			_, err := e.ledger.Deposit(e.ctx, "alice", models.Exact(500))
			require.NoError(t, err)
		}
	}
	ledger := service.NewLedgerService(factory, e.cfg, service.WithClock(e.clock.Now))

	sweep, err := ledger.SweepInterest(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sweep.AccountsScanned)
	assert.Equal(t, 3, factory.created)

	alice := e.load(t, "alice")
	assert.Zero(t, alice.Balance)
	assert.Equal(t, int64(1500+30), alice.Bank, "interest is paid on the deposited bank")
	assert.Equal(t, int64(102), e.load(t, "bob").Bank)
}

func TestTransferFee(t *testing.T) {
	tests := []struct {
		amount      int64
		certificate bool
		wantFee     int64
		wantPercent float64
	}{
		{amount: 1000, wantFee: 10, wantPercent: 0.01},
		{amount: 1000, certificate: true, wantFee: 5, wantPercent: 0.005},
		{amount: 99, wantFee: 0, wantPercent: 0.01},
		{amount: 12345, wantFee: 123, wantPercent: 0.01},
	}

	for _, tt := range tests {
		fee, pct := service.TransferFee(tt.amount, 0.01, tt.certificate)
		assert.Equal(t, tt.wantFee, fee, "amount %d", tt.amount)
		assert.InDelta(t, tt.wantPercent, pct, 1e-12)
	}
}
