package application

import (
	"context"
	"fmt"
	"time"

	"mikune/models"
	"mikune/service"

	log "github.com/sirupsen/logrus"
)

// InterestSweeper credits due savings interest across every account
type InterestSweeper interface {
	SweepInterest(ctx context.Context) (*models.InterestSweepResult, error)
}

// InterestWorker runs the daily interest sweep at a fixed UTC hour
type InterestWorker struct {
	sweeper InterestSweeper
	runs    service.InterestRunRepository
	hour    int
	now     func() time.Time
}

// NewInterestWorker creates a new interest worker. runs may be nil when
// the storage backend has no interest_runs table.
func NewInterestWorker(sweeper InterestSweeper, runs service.InterestRunRepository, hour int) *InterestWorker {
	return &InterestWorker{
		sweeper: sweeper,
		runs:    runs,
		hour:    hour,
		now:     time.Now,
	}
}

// Start begins the interest worker and returns a stop function
func (w *InterestWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Infof("Interest worker started, next run at %02d:00 UTC", w.hour)

		for {
			waitDuration := service.GetNextRunTime(w.hour, w.now()).Sub(w.now())
			log.Infof("Interest worker waiting %v until next run", waitDuration)

			select {
			case <-ctx.Done():
				log.Info("Interest worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Interest worker shutting down (stop requested)...")
				return
			case <-time.After(waitDuration):
				if _, err := w.RunOnce(ctx); err != nil {
					log.Errorf("Error running interest sweep: %v", err)
				}
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// RunOnce performs one sweep unless today's sweep is already recorded.
// It returns nil when the sweep was skipped.
func (w *InterestWorker) RunOnce(ctx context.Context) (*models.InterestSweepResult, error) {
	started := w.now().UTC()

	if w.runs != nil {
		existing, err := w.runs.GetByDate(ctx, started)
		if err != nil {
			return nil, fmt.Errorf("failed to check interest run: %w", err)
		}
		if existing != nil {
			log.WithField("run_date", existing.RunDate.Format("2006-01-02")).Info("Interest sweep already ran today, skipping")
			return nil, nil
		}
	}

	result, err := w.sweeper.SweepInterest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep interest: %w", err)
	}

	if w.runs != nil {
		run := &models.InterestRun{
			RunDate:                  started,
			TotalInterestDistributed: result.TotalDistributed,
			AccountsAffected:         result.AccountsAffected,
			ExecutionSummary: map[string]any{
				"accounts_scanned": result.AccountsScanned,
				"duration_ms":      w.now().Sub(started).Milliseconds(),
			},
		}
		if err := w.runs.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to record interest run: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"accounts_scanned":  result.AccountsScanned,
		"accounts_affected": result.AccountsAffected,
		"total_distributed": result.TotalDistributed,
	}).Info("Completed interest sweep")

	return result, nil
}
