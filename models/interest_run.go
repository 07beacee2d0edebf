package models

import (
	"time"
)

// InterestRun represents a daily bank interest sweep
type InterestRun struct {
	ID                       int64          `db:"id"`
	RunDate                  time.Time      `db:"run_date"`
	TotalInterestDistributed int64          `db:"total_interest_distributed"`
	AccountsAffected         int            `db:"accounts_affected"`
	ExecutionSummary         map[string]any `db:"execution_summary"`
	CreatedAt                time.Time      `db:"created_at"`
}
