package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatBalance formats a chip amount with thousand separators
func FormatBalance(balance int64) string {
	str := fmt.Sprintf("%d", balance)

	negative := false
	if strings.HasPrefix(str, "-") {
		negative = true
		str = str[1:]
	}

	n := len(str)
	if n > 3 {
		var result strings.Builder
		for i, digit := range str {
			if i > 0 && (n-i)%3 == 0 {
				result.WriteRune(',')
			}
			result.WriteRune(digit)
		}
		str = result.String()
	}

	if negative {
		return "-" + str
	}
	return str
}

// FormatCooldown renders a remaining cooldown as days, hours and minutes,
// omitting the days part when it is zero. Durations under a minute round up
// so the user never sees "0 minutes" on an active cooldown.
func FormatCooldown(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}

	days := int(remaining / (24 * time.Hour))
	remaining -= time.Duration(days) * 24 * time.Hour
	hours := int(remaining / time.Hour)
	remaining -= time.Duration(hours) * time.Hour
	minutes := int(remaining / time.Minute)
	if days == 0 && hours == 0 && minutes == 0 {
		minutes = 1
	}

	if days > 0 {
		return fmt.Sprintf("%d days, %d hours, and %d minutes", days, hours, minutes)
	}
	return fmt.Sprintf("%d hours, and %d minutes", hours, minutes)
}

// FormatMultiplier renders a limbo multiplier with two decimals
func FormatMultiplier(m float64) string {
	return fmt.Sprintf("%.2fx", m)
}
