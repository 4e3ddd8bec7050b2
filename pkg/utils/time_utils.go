package utils

import "time"

// Timestamps are stored as unix seconds and rendered in UTC.

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FormatUnixSeconds renders an epoch value as RFC 3339. Zero renders as "".
func FormatUnixSeconds(t int64) string {
	if t <= 0 {
		return ""
	}
	return time.Unix(t, 0).UTC().Format(time.RFC3339)
}

// StartOfDayUTC drops the clock part of t in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonthUTC is midnight on the first day of t's month, in UTC.
func StartOfMonthUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
