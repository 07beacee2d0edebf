package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-25000, "-25,000"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBalance(tt.input))
		})
	}
}

func TestFormatBalanceCompact(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{500, "500"},
		{1000, "1k"},
		{1500, "1.5k"},
		{2500000, "2.5M"},
		{3000000000, "3B"},
		{-1500, "-1.5k"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBalanceCompact(tt.input))
		})
	}
}

func TestFormatDebt(t *testing.T) {
	assert.Equal(t, "🥕 1,636", FormatDebt(decimal.RequireFromString("1636.3636")))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "< 1m", FormatDuration(30*time.Second))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "3h 45m", FormatDuration(3*time.Hour+45*time.Minute))
	assert.Equal(t, "2d 14h 30m", FormatDuration(62*time.Hour+30*time.Minute))
	assert.Equal(t, "1d", FormatDuration(24*time.Hour))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "2%", FormatPercent(0.02))
	assert.Equal(t, "0.5%", FormatPercent(0.005))
	assert.Equal(t, "70%", FormatPercent(0.7))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 100, 10))
	assert.Equal(t, "██████████", ProgressBar(150, 100, 10))
	assert.Equal(t, "", ProgressBar(1, 0, 10))
}
