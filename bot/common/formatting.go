package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mikune/utils"
)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	return utils.FormatAmount(balance)
}

// FormatCarrots formats an amount with the currency emoji
func FormatCarrots(amount int64) string {
	return fmt.Sprintf("%s %s", CurrencyEmoji, FormatBalance(amount))
}

// FormatDebt formats a fractional debt rounded down to whole carrots
func FormatDebt(debt decimal.Decimal) string {
	return FormatCarrots(debt.Floor().IntPart())
}

// FormatBalanceCompact formats a balance amount in compact form (e.g. 100k, 1.5M)
func FormatBalanceCompact(balance int64) string {
	if balance < 0 {
		return "-" + FormatBalanceCompact(-balance)
	}

	format := func(value float64, suffix string) string {
		if value == float64(int64(value)) {
			return fmt.Sprintf("%.0f%s", value, suffix)
		}
		return fmt.Sprintf("%.1f%s", value, suffix)
	}

	switch {
	case balance < 1000:
		return fmt.Sprintf("%d", balance)
	case balance < 1000000:
		return format(float64(balance)/1000.0, "k")
	case balance < 1000000000:
		return format(float64(balance)/1000000.0, "M")
	default:
		return format(float64(balance)/1000000000.0, "B")
	}
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatDuration formats a duration in a human-readable format
// Examples: "2d 14h 30m", "3h 45m", "45m", "< 1m"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "< 1m"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return strings.Join(parts, " ")
}

// FormatPercent formats a fraction such as 0.02 as "2%"
func FormatPercent(fraction float64) string {
	return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.2f", fraction*100), "0"), ".0") + "%"
}

// ProgressBar renders a text bar of width cells filled to current/total
func ProgressBar(current, total int64, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := int(current * int64(width) / total)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
