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
	return time.Parse(layoutDate, strings.TrimSpace(s))
}

// FormatDate formats time to YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(layoutDate)
}

// DateExpired reports whether a YYYY-MM-DD date lies strictly before today.
// Equal-to-today is not expired (exclusive boundary). Unparseable or empty
// dates are treated as not expired, matching lenient legacy records.
func DateExpired(s string, today time.Time) bool {
	d, err := ParseDate(s)
	if err != nil {
		return false
	}
	y, m, day := today.UTC().Date()
	return d.Before(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}
