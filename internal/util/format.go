package util

import (
	"fmt"
	"time"
)

// FormatPercent formats a 0..1 fraction as a whole percentage.
// Examples: 0.5 -> "50%", 1 -> "100%"
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// FormatScore formats a score with at most two decimals, dropping trailing zeros.
// Examples: 2 -> "2", 0.5 -> "0.5", 0.333 -> "0.33"
func FormatScore(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatTime formats a time as RFC3339 in UTC, the storage format for timestamps.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTime parses an RFC3339 timestamp, returning the zero time on failure.
func ParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// BoolToInt64 converts a bool to int64 (true=1, false=0).
// This is useful for SQLite which doesn't have a native boolean type.
func BoolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
