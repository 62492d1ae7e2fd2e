package utils

import (
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.UTC)
}

// FormatDate formats time to YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(layoutDate)
}
