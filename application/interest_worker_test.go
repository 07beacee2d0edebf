package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"mikune/models"
	"mikune/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) SweepInterest(ctx context.Context) (*models.InterestSweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterestSweepResult), args.Error(1)
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestInterestWorker_RunOnce_RecordsRun(t *testing.T) {
	ctx := context.Background()
	sweeper := new(mockSweeper)
	runs := new(service.MockInterestRunRepository)

	sweep := &models.InterestSweepResult{TotalDistributed: 71, AccountsAffected: 2, AccountsScanned: 4}
	runs.On("GetByDate", ctx, fixedNow()).Return(nil, nil)
	sweeper.On("SweepInterest", ctx).Return(sweep, nil)
	runs.On("Create", ctx, mock.MatchedBy(func(run *models.InterestRun) bool {
		return run.TotalInterestDistributed == 71 &&
			run.AccountsAffected == 2 &&
			run.ExecutionSummary["accounts_scanned"] == 4
	})).Return(nil)

	worker := NewInterestWorker(sweeper, runs, 9)
	worker.now = fixedNow

	result, err := worker.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, sweep, result)

	sweeper.AssertExpectations(t)
	runs.AssertExpectations(t)
}

func TestInterestWorker_RunOnce_SkipsWhenAlreadyRan(t *testing.T) {
	ctx := context.Background()
	sweeper := new(mockSweeper)
	runs := new(service.MockInterestRunRepository)

	runs.On("GetByDate", ctx, fixedNow()).Return(&models.InterestRun{ID: 1, RunDate: fixedNow()}, nil)

	worker := NewInterestWorker(sweeper, runs, 9)
	worker.now = fixedNow

	result, err := worker.RunOnce(ctx)
	require.NoError(t, err)
	assert.Nil(t, result)

	sweeper.AssertNotCalled(t, "SweepInterest", mock.Anything)
	runs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInterestWorker_RunOnce_WithoutRunRepository(t *testing.T) {
	ctx := context.Background()
	sweeper := new(mockSweeper)
	sweeper.On("SweepInterest", ctx).Return(&models.InterestSweepResult{AccountsScanned: 1}, nil)

	worker := NewInterestWorker(sweeper, nil, 9)

	result, err := worker.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AccountsScanned)
	sweeper.AssertExpectations(t)
}

func TestInterestWorker_RunOnce_SweepError(t *testing.T) {
	ctx := context.Background()
	sweeper := new(mockSweeper)
	runs := new(service.MockInterestRunRepository)

	runs.On("GetByDate", ctx, mock.Anything).Return(nil, nil)
	sweeper.On("SweepInterest", ctx).Return(nil, errors.New("store unavailable"))

	worker := NewInterestWorker(sweeper, runs, 9)

	_, err := worker.RunOnce(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to sweep interest")
	runs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInterestWorker_StopFunction(t *testing.T) {
	sweeper := new(mockSweeper)
	worker := NewInterestWorker(sweeper, nil, 9)

	stop := worker.Start(context.Background())
	stop()

	sweeper.AssertNotCalled(t, "SweepInterest", mock.Anything)
}
