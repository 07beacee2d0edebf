package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatAmount formats a currency amount with thousand separators
func FormatAmount(value int64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	str := strconv.FormatInt(value, 10)
	n := len(str)
	if n <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// FormatDuration renders a wait time as "Xs", "Xm Xs", "Xh Xm Xs" or "Xd Xh Xm Xs"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)

	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}

	minutes, seconds := total/60, total%60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours, minutes := minutes/60, minutes%60
	if hours < 24 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	days, hours := hours/24, hours%24
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
}
