package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mikune/database"
	"mikune/models"

	"github.com/jackc/pgx/v5"
)

// InterestRunRepository records daily interest sweeps
type InterestRunRepository struct {
	db *database.DB
}

// NewInterestRunRepository creates a new interest run repository
func NewInterestRunRepository(db *database.DB) *InterestRunRepository {
	return &InterestRunRepository{db: db}
}

func runDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

const selectInterestRun = `
	SELECT id, run_date, total_interest_distributed, accounts_affected,
	       execution_summary, created_at
	FROM interest_runs
`

// GetByDate returns the sweep for the calendar day of date, or nil
func (r *InterestRunRepository) GetByDate(ctx context.Context, date time.Time) (*models.InterestRun, error) {
	day := runDay(date)
	run, err := r.scanOne(r.db.QueryRow(ctx, selectInterestRun+` WHERE run_date = $1`, day))
	if err != nil {
		return nil, fmt.Errorf("failed to get interest run for date %s: %w", day.Format("2006-01-02"), err)
	}
	return run, nil
}

// Create inserts a sweep record. RunDate is truncated to its day.
func (r *InterestRunRepository) Create(ctx context.Context, run *models.InterestRun) error {
	run.RunDate = runDay(run.RunDate)

	summaryJSON, err := json.Marshal(run.ExecutionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	query := `
		INSERT INTO interest_runs
		(run_date, total_interest_distributed, accounts_affected, execution_summary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err = r.db.QueryRow(ctx, query,
		run.RunDate,
		run.TotalInterestDistributed,
		run.AccountsAffected,
		summaryJSON,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create interest run for date %s: %w", run.RunDate.Format("2006-01-02"), err)
	}

	return nil
}

// GetLatest returns the most recent sweep, or nil when none ran yet
func (r *InterestRunRepository) GetLatest(ctx context.Context) (*models.InterestRun, error) {
	run, err := r.scanOne(r.db.QueryRow(ctx, selectInterestRun+` ORDER BY run_date DESC LIMIT 1`))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest interest run: %w", err)
	}
	return run, nil
}

func (r *InterestRunRepository) scanOne(row pgx.Row) (*models.InterestRun, error) {
	var run models.InterestRun
	var summaryJSON []byte

	err := row.Scan(
		&run.ID,
		&run.RunDate,
		&run.TotalInterestDistributed,
		&run.AccountsAffected,
		&summaryJSON,
		&run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.ExecutionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution summary: %w", err)
		}
	}
	return &run, nil
}
