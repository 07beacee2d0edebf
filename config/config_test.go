package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("BANK_INTEREST_RATE", "")
	t.Setenv("LOAN_DURATION_DAYS", "")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, StorageFile, cfg.StorageBackend)
	assert.Equal(t, "data/economy.json", cfg.DataFile)
	assert.Equal(t, 0.02, cfg.InterestRate)
	assert.Equal(t, 0.05, cfg.LoanInterestRate)
	assert.Equal(t, int64(1000), cfg.MinLoan)
	assert.Equal(t, int64(2), cfg.MaxLoanMultiplier)
	assert.Equal(t, 7*24*time.Hour, cfg.LoanDuration)
	assert.Equal(t, 0.01, cfg.TransferFeePercent)
	assert.Equal(t, 0.7, cfg.PropertyResaleRate)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("LOAN_INTEREST_RATE", "0.1")
	t.Setenv("MIN_LOAN", "500")
	t.Setenv("LOAN_DURATION_DAYS", "3")
	t.Setenv("LEADERBOARD_CACHE_TTL", "30s")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, 0.1, cfg.LoanInterestRate)
	assert.Equal(t, int64(500), cfg.MinLoan)
	assert.Equal(t, 3*24*time.Hour, cfg.LoanDuration)
	assert.Equal(t, 30*time.Second, cfg.LeaderboardCacheTTL)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("MIN_LOAN", "lots")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cfg.MinLoan)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown backend",
			env:     map[string]string{"ENVIRONMENT": "test", "STORAGE_BACKEND": "sqlite"},
			wantErr: "STORAGE_BACKEND",
		},
		{
			name:    "missing token outside test",
			env:     map[string]string{"ENVIRONMENT": "production", "DISCORD_TOKEN": ""},
			wantErr: "DISCORD_TOKEN is required",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"ENVIRONMENT": "production", "DISCORD_TOKEN": "x", "STORAGE_BACKEND": "postgres", "DATABASE_URL": ""},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "sweep hour out of range",
			env:     map[string]string{"ENVIRONMENT": "test", "INTEREST_SWEEP_HOUR": "24"},
			wantErr: "INTEREST_SWEEP_HOUR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetTestConfig(t *testing.T) {
	defer ResetConfig()

	testCfg := NewTestConfig()
	testCfg.MinLoan = 42
	SetTestConfig(testCfg)

	assert.Same(t, testCfg, Get())
}
