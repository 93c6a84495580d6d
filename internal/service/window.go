package service

import "time"

// wallClockLayout is the "HH:MM" form ordering windows are stored in.
// Zero-padded 24h strings compare correctly as plain strings.
const wallClockLayout = "15:04"

// WindowOpen reports whether now falls inside the recurring ordering window
// [start, end] evaluated as local wall-clock time in loc. The business runs
// in a single timezone, so loc comes from configuration rather than from
// the caller's locale.
//
// An empty start or end means the window is unrestricted. Both bounds are
// inclusive. A start greater than end denotes a window wrapping midnight,
// e.g. 22:00-02:00.
func WindowOpen(now time.Time, start, end string, loc *time.Location) bool {
	if start == "" || end == "" {
		return true
	}

	cur := now.In(loc).Format(wallClockLayout)

	if start <= end {
		return cur >= start && cur <= end
	}

	// window crosses midnight
	return cur >= start || cur <= end
}

// startOfDay returns midnight of now's calendar day in loc
func startOfDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// dayKey formats t as a YYYY-MM-DD calendar date in loc
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// monthKey formats t as a YYYY-MM calendar month in loc
func monthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01")
}
