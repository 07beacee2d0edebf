package service

import (
	"context"
	"testing"

	"mikune/config"
	"mikune/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_SweepInterest_LocksEachAccount(t *testing.T) {
	ctx := context.Background()

	listUoW := new(MockUnitOfWork)
	listRepo := new(MockAccountRepository)
	listUoW.SetRepositories(listRepo, nil, nil)
	listUoW.On("Begin", ctx).Return(nil)
	listUoW.On("Rollback").Return(nil)
	listRepo.On("List", ctx).Return([]*models.Account{{UserID: "gone"}}, nil)

	sweepUoW := new(MockUnitOfWork)
	sweepRepo := new(MockAccountRepository)
	sweepUoW.SetRepositories(sweepRepo, nil, nil)
	sweepUoW.On("Begin", ctx).Return(nil)
	sweepUoW.On("Commit").Return(nil)
	sweepUoW.On("Rollback").Return(nil)
	sweepRepo.On("Get", ctx, "gone").Return(nil, nil)

	mockFactory := new(MockUnitOfWorkFactory)
	mockFactory.On("Create").Return(listUoW).Once()
	mockFactory.On("Create").Return(sweepUoW).Once()

	sweep, err := NewLedgerService(mockFactory, config.NewTestConfig()).SweepInterest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sweep.AccountsScanned)
	assert.Zero(t, sweep.AccountsAffected)

	// The listed snapshot is never written back; each account is re-read
	listRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	sweepRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	sweepRepo.AssertCalled(t, "Get", ctx, "gone")
	mockFactory.AssertExpectations(t)
}
