package tasks

import "time"

// DateKey returns the calendar-day key grouping a day's tasks and summary
// message, e.g. "21-03-2026 (Saturday)". It is computed from the given
// instant on every call, so a process running across midnight starts a new
// day instead of reusing a stale key.
func DateKey(t time.Time) string {
	return t.Format("02-01-2006 (Monday)")
}
