package common

import (
	"fmt"
	"time"

	"chipbot/domain/utils"
)

// FormatChips renders a chip amount with thousand separators
func FormatChips(amount int64) string {
	return utils.FormatBalance(amount)
}

// FormatWagerResult formats the one-line outcome of a resolved wager
func FormatWagerResult(won bool, stake, newBalance int64) string {
	if won {
		return fmt.Sprintf("🎉 **You won %s chips!** New balance: **%s**",
			FormatChips(stake), FormatChips(newBalance))
	}
	return fmt.Sprintf("😔 **You lost %s chips.** New balance: **%s**",
		FormatChips(stake), FormatChips(newBalance))
}

// FormatTransferResult formats the result of a chip transfer
func FormatTransferResult(amount int64, recipientID int64) string {
	return fmt.Sprintf("✅ Gave **%s chips** to %s", FormatChips(amount), GetUserMention(recipientID))
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that renders
// in each viewer's local timezone. Format types: "t" short time, "T" long
// time, "d" short date, "D" long date, "f" short date/time, "F" long
// date/time, "R" relative.
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
