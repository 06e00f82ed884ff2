// Package timeutil formats the Unix-nanosecond timestamps the journal
// stores for the TUI status line and the CLI.
package timeutil

import (
	"fmt"
	"time"
)

// FromNano converts Unix nanoseconds to time.Time.
func FromNano(ns int64) time.Time {
	return time.Unix(0, ns)
}

// NowNano returns the current time as Unix nanoseconds.
func NowNano() int64 {
	return time.Now().UnixNano()
}

// FormatTimestamp renders "HH:MM:SS.mmm" in local time.
func FormatTimestamp(ns int64) string {
	return FromNano(ns).Format("15:04:05.000")
}

// FormatTimestampFull renders "2006-01-02 15:04:05.000" in local time.
// Zero renders as "-".
func FormatTimestampFull(ns int64) string {
	if ns == 0 {
		return "-"
	}
	return FromNano(ns).Format("2006-01-02 15:04:05.000")
}

// FormatDuration renders d as "450ms", "1.2s" or "2m 15.3s".
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := d.Seconds()
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := int(seconds / 60)
	return fmt.Sprintf("%dm %.1fs", minutes, seconds-float64(minutes*60))
}

// RelativeTime renders how long before now ns was: "just now", "5s ago",
// "2m ago", "1h ago" or "3d ago".
func RelativeTime(ns int64, now time.Time) string {
	diff := now.Sub(FromNano(ns))

	switch {
	case diff < time.Second:
		return "just now"
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
